package routes

import (
	"strings"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tangerineArc/campus-roots-backend/models"
	"github.com/tangerineArc/campus-roots-backend/storage"
	"github.com/tangerineArc/campus-roots-backend/utils"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

func GetProfileData(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	user := getUserWithProfile("id = ?", id, ctx)
	if user == nil {
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": user})
}

func GetProfileDataByName(ctx iris.Context) {
	params := ctx.Params()
	name := params.Get("name")

	user := getUserWithProfile("name = ?", name, ctx)
	if user == nil {
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": user})
}

func UpdateProfileData(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var req UpdateProfileInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{
		"name":       req.Name,
		"about":      req.About,
		"avatar_url": req.AvatarURL,
	}
	updateQuery := storage.DB.Model(&models.User{}).Where("id = ?", claims.ID).Updates(updates)
	if updateQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnProfile(claims.ID, ctx)
}

func UpdateExperiences(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var req UpdateExperiencesInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", claims.ID).Delete(&models.Experience{}).Error; err != nil {
			return err
		}
		if len(req.Experiences) == 0 {
			return nil
		}
		for i := range req.Experiences {
			req.Experiences[i].ID = 0
			req.Experiences[i].UserID = claims.ID
		}
		return tx.Create(&req.Experiences).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnProfile(claims.ID, ctx)
}

func UpdateEducation(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var req UpdateEducationInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", claims.ID).Delete(&models.Education{}).Error; err != nil {
			return err
		}
		if len(req.Education) == 0 {
			return nil
		}
		for i := range req.Education {
			req.Education[i].ID = 0
			req.Education[i].UserID = claims.ID
		}
		return tx.Create(&req.Education).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnProfile(claims.ID, ctx)
}

func UpdateSkills(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var req UpdateSkillsInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", claims.ID).Delete(&models.Skill{}).Error; err != nil {
			return err
		}
		if len(req.Skills) == 0 {
			return nil
		}
		for i := range req.Skills {
			req.Skills[i].ID = 0
			req.Skills[i].UserID = claims.ID
		}
		return tx.Create(&req.Skills).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnProfile(claims.ID, ctx)
}

func UpdateAchievements(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var req UpdateAchievementsInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", claims.ID).Delete(&models.Achievement{}).Error; err != nil {
			return err
		}
		if len(req.Achievements) == 0 {
			return nil
		}
		for i := range req.Achievements {
			req.Achievements[i].ID = 0
			req.Achievements[i].UserID = claims.ID
		}
		return tx.Create(&req.Achievements).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnProfile(claims.ID, ctx)
}

func GetConnections(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var connections []models.Connection
	query := storage.DB.Where("requester_id = ? OR addressee_id = ?", id, id).Find(&connections)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "connections": connections})
}

func AddConnection(ctx iris.Context) {
	requesterID, addresseeID, ok := connectionIDs(ctx)
	if !ok {
		return
	}

	var existing models.Connection
	query := storage.DB.
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			requesterID, addresseeID, addresseeID, requesterID).
		Limit(1).Find(&existing)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected > 0 {
		ctx.JSON(iris.Map{"success": true, "connection": existing})
		return
	}

	connection := models.Connection{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.ConnectionPending,
	}
	if err := storage.DB.Create(&connection).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "connection": connection})
}

func AcceptConnection(ctx iris.Context) {
	requesterID, addresseeID, ok := connectionIDs(ctx)
	if !ok {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if claims.ID != addresseeID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	query := storage.DB.Model(&models.Connection{}).
		Where("requester_id = ? AND addressee_id = ?", requesterID, addresseeID).
		Update("status", models.ConnectionAccepted)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

func RemoveConnection(ctx iris.Context) {
	requesterID, addresseeID, ok := connectionIDs(ctx)
	if !ok {
		return
	}

	query := storage.DB.
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			requesterID, addresseeID, addresseeID, requesterID).
		Delete(&models.Connection{})
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// connectionIDs parses the {id1}/{id2} route params and checks the caller is
// one of the two users involved.
func connectionIDs(ctx iris.Context) (uint, uint, bool) {
	id1, err1 := ctx.Params().GetUint("id1")
	id2, err2 := ctx.Params().GetUint("id2")
	if err1 != nil || err2 != nil || id1 == 0 || id2 == 0 || id1 == id2 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Two distinct valid user ids are required.", ctx)
		return 0, 0, false
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if !slices.Contains([]uint{id1, id2}, claims.ID) {
		ctx.StatusCode(iris.StatusForbidden)
		return 0, 0, false
	}

	return id1, id2, true
}

func getUserWithProfile(condition string, value string, ctx iris.Context) *models.User {
	var user models.User
	query := storage.DB.
		Preload("Experiences").
		Preload("Education").
		Preload("Skills").
		Preload("Achievements").
		Limit(1).Find(&user, condition, value)

	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &user
}

func returnProfile(id uint, ctx iris.Context) {
	var user models.User
	query := storage.DB.
		Preload("Experiences").
		Preload("Education").
		Preload("Skills").
		Preload("Achievements").
		Limit(1).Find(&user, "id = ?", id)

	if query.Error != nil || query.RowsAffected == 0 {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": user})
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

type UpdateProfileInput struct {
	Name      string `json:"name" validate:"required,lt=256"`
	About     string `json:"about" validate:"lt=5000"`
	AvatarURL string `json:"avatarURL" validate:"lt=512"`
}

type UpdateExperiencesInput struct {
	Experiences []models.Experience `json:"experiences" validate:"dive"`
}

type UpdateEducationInput struct {
	Education []models.Education `json:"education" validate:"dive"`
}

type UpdateSkillsInput struct {
	Skills []models.Skill `json:"skills" validate:"dive"`
}

type UpdateAchievementsInput struct {
	Achievements []models.Achievement `json:"achievements" validate:"dive"`
}
