package seeds

import (
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"okrhub_backend/internals/configs"
	accessModel "okrhub_backend/internals/features/users/access/model"
	authModel "okrhub_backend/internals/features/users/teamsauth/model"
)

// Run executes every seed. All seeds are idempotent, so RUN_SEEDS can stay
// enabled across deploys.
func Run(db *gorm.DB) {
	log.Println("🌱 Running seeds...")

	if err := SeedQuestions(db); err != nil {
		log.Printf("[ERROR] question seed failed: %v", err)
	}
	if err := seedInitialAdmin(db); err != nil {
		log.Printf("[ERROR] admin seed failed: %v", err)
	}

	log.Println("🌱 Seeds finished")
}

// seedInitialAdmin grants admin-master to the profile named by
// INITIAL_ADMIN_UPN so a fresh install has at least one administrator.
func seedInitialAdmin(db *gorm.DB) error {
	upn := configs.GetEnv("INITIAL_ADMIN_UPN")
	if upn == "" {
		return nil
	}

	var profile authModel.TeamsProfileModel
	if err := db.Where("user_principal_name = ?", upn).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[WARN] INITIAL_ADMIN_UPN %s has no profile yet, skipping admin seed", upn)
			return nil
		}
		return err
	}

	for _, capability := range []int{accessModel.AccessAddObjective, accessModel.AccessAdminMaster} {
		row := accessModel.UserAccessModel{UserID: profile.ID, AccessID: capability}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	log.Printf("[INFO] granted admin access to %s", upn)
	return nil
}
