package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"okrhub_backend/internals/configs"
	accessModel "okrhub_backend/internals/features/users/access/model"
	authModel "okrhub_backend/internals/features/users/teamsauth/model"
	okrModel "okrhub_backend/internals/features/okr/okrs/model"
	logModel "okrhub_backend/internals/features/okr/logs/model"
	taskModel "okrhub_backend/internals/features/okr/tasks/model"
	formModel "okrhub_backend/internals/features/weekly/forms/model"
	questionModel "okrhub_backend/internals/features/weekly/questions/model"
	reviewModel "okrhub_backend/internals/features/weekly/reviews/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=okrhub&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // works with PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		log.Fatalf("❌ DB connect failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

// Migrate creates/updates the schema. The unique indexes declared on the models
// are what enforce the (user, entry_date) and (form, manager) invariants, so the
// get-or-create paths stay safe under concurrent requests.
func Migrate() {
	if err := DB.AutoMigrate(
		&authModel.TeamsProfileModel{},
		&authModel.TokenBlacklistModel{},
		&accessModel.UserAccessModel{},
		&okrModel.DepartmentModel{},
		&okrModel.BusinessUnitModel{},
		&okrModel.OKRModel{},
		&okrModel.OkrUserMappingModel{},
		&okrModel.BusinessUnitOKRMappingModel{},
		&taskModel.TaskModel{},
		&taskModel.TaskChallengeModel{},
		&logModel.ProgressLogModel{},
		&questionModel.QuestionModel{},
		&questionModel.OptionModel{},
		&formModel.FormModel{},
		&formModel.UserAnswerModel{},
		&reviewModel.ManagerReviewModel{},
		&reviewModel.ManagerAnswerModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	log.Println("✅ Schema migrated.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
