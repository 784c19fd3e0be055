package database

import (
	"fmt"
	"log"

	"moneybook/config"
	"moneybook/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Income{},
		&models.Expense{},
		&models.ExpenseCategory{},
		&models.IncomeCategory{},
	); err != nil {
		return err
	}

	// 补建钱包：老版本没有 wallets 表，为已有用户创建零余额钱包
	var userIDs []uint
	DB.Model(&models.User{}).
		Where("id NOT IN (?)", DB.Model(&models.Wallet{}).Select("user_id")).
		Pluck("id", &userIDs)
	for _, uid := range userIDs {
		_ = DB.Create(&models.Wallet{UserID: uid}).Error
	}

	// 初始化默认支出类别（仅当表为空时）
	var catCount int64
	DB.Model(&models.ExpenseCategory{}).Count(&catCount)
	if catCount == 0 {
		defaultCats := models.GetCategories()
		// 默认类别对应的颜色（与客户端样式保持一致）
		colorMap := map[string]string{
			"餐饮": "#ef4444", // 红色
			"交通": "#3b82f6", // 蓝色
			"购物": "#a855f7", // 紫色
			"娱乐": "#ec4899", // 粉色
			"医疗": "#10b981", // 绿色
			"教育": "#f59e0b", // 橙色
			"住房": "#14b8a6", // 青色
			"其他": "#64748b", // 灰色
		}
		var cats []models.ExpenseCategory
		for i, name := range defaultCats {
			color := colorMap[name]
			if color == "" {
				color = "#64748b" // 默认灰色
			}
			cats = append(cats, models.ExpenseCategory{
				Name:  name,
				Sort:  (i + 1) * 10,
				Color: color,
			})
		}
		if len(cats) > 0 {
			_ = DB.Create(&cats).Error
		}
	}

	// 初始化默认收入类别（仅当表为空时）
	var incomeCatCount int64
	DB.Model(&models.IncomeCategory{}).Count(&incomeCatCount)
	if incomeCatCount == 0 {
		defaultIncomeCats := []struct {
			Name  string
			Sort  int
			Color string
		}{
			{"工资", 10, "#10b981"},
			{"奖金", 20, "#3b82f6"},
			{"理财", 30, "#a855f7"},
			{"兼职", 40, "#f59e0b"},
			{"其他", 50, "#64748b"},
		}
		var incomeCats []models.IncomeCategory
		for _, item := range defaultIncomeCats {
			incomeCats = append(incomeCats, models.IncomeCategory{
				Name:  item.Name,
				Sort:  item.Sort,
				Color: item.Color,
			})
		}
		if len(incomeCats) > 0 {
			_ = DB.Create(&incomeCats).Error
		}
	}

	log.Println("数据库初始化成功")
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
