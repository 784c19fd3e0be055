package config

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
// err 为 nil 或 release 模式时返回 fallback，开发环境返回原始错误
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
