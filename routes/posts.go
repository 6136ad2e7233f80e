package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tangerineArc/campus-roots-backend/models"
	"github.com/tangerineArc/campus-roots-backend/storage"
	"github.com/tangerineArc/campus-roots-backend/utils"
	"gorm.io/gorm"
)

func postFeedQuery() *gorm.DB {
	return storage.DB.
		Preload("User").
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.User").
		Preload("Comments.Likes").
		Order("created_at DESC")
}

// GetPostsData returns the whole feed, newest first.
func GetPostsData(ctx iris.Context) {
	var posts []models.Post
	if err := postFeedQuery().Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "posts": posts})
}

// GetPosts returns one user's posts, newest first.
func GetPosts(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var posts []models.Post
	if err := postFeedQuery().Where("user_id = ?", id).Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "posts": posts})
}

func GetCommentsData(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var comments []models.Comment
	err := storage.DB.
		Where("post_id = ?", id).
		Preload("User").
		Preload("Children").
		Preload("Likes").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "comments": comments})
}

func GetCommentLikesCount(ctx iris.Context) {
	commentID, err := ctx.Params().GetUint("commentId")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "A valid comment id is required.", ctx)
		return
	}

	var count int64
	if err := storage.DB.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "likesCount": count})
}

func TogglePostLikes(ctx iris.Context) {
	var req TogglePostLikeInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if req.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var existing models.PostLike
	query := storage.DB.
		Where("user_id = ? AND post_id = ?", req.UserID, req.PostID).
		Limit(1).Find(&existing)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if query.RowsAffected > 0 {
		if err := storage.DB.Where("user_id = ? AND post_id = ?", req.UserID, req.PostID).Delete(&models.PostLike{}).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		ctx.JSON(iris.Map{"success": true, "liked": false})
		return
	}

	like := models.PostLike{UserID: req.UserID, PostID: req.PostID}
	if err := storage.DB.Create(&like).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "liked": true})
}

func ToggleCommentLikes(ctx iris.Context) {
	var req ToggleCommentLikeInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if req.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var existing models.CommentLike
	query := storage.DB.
		Where("user_id = ? AND comment_id = ?", req.UserID, req.CommentID).
		Limit(1).Find(&existing)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if query.RowsAffected > 0 {
		if err := storage.DB.Where("user_id = ? AND comment_id = ?", req.UserID, req.CommentID).Delete(&models.CommentLike{}).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		ctx.JSON(iris.Map{"success": true, "liked": false})
		return
	}

	like := models.CommentLike{UserID: req.UserID, CommentID: req.CommentID}
	if err := storage.DB.Create(&like).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "liked": true})
}

func AddPost(ctx iris.Context) {
	var req AddPostInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	post := models.Post{UserID: claims.ID, Body: req.Body}
	if err := storage.DB.Create(&post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "post": post})
}

func AddComment(ctx iris.Context) {
	var req AddCommentInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	comment := models.Comment{
		PostID:          req.PostID,
		UserID:          claims.ID,
		Body:            req.Body,
		ParentCommentID: req.ParentCommentID,
	}
	if err := storage.DB.Create(&comment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "comment": comment})
}

func DeletePost(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "A valid post id is required.", ctx)
		return
	}

	var post models.Post
	query := storage.DB.Limit(1).Find(&post, id)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if post.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	storage.DB.Where("post_id = ?", id).Delete(&models.PostLike{})
	storage.DB.Where("post_id = ?", id).Delete(&models.Comment{})
	if err := storage.DB.Delete(&post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

func DeleteComment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "A valid comment id is required.", ctx)
		return
	}

	var comment models.Comment
	query := storage.DB.Limit(1).Find(&comment, id)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if comment.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	storage.DB.Where("comment_id = ?", id).Delete(&models.CommentLike{})
	storage.DB.Where("parent_comment_id = ?", id).Delete(&models.Comment{})
	if err := storage.DB.Delete(&comment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

type TogglePostLikeInput struct {
	PostID uint `json:"postId" validate:"required"`
	UserID uint `json:"userId" validate:"required"`
}

type ToggleCommentLikeInput struct {
	CommentID uint `json:"commentId" validate:"required"`
	UserID    uint `json:"userId" validate:"required"`
}

type AddPostInput struct {
	Body string `json:"body" validate:"required,lt=10000"`
}

type AddCommentInput struct {
	PostID          uint   `json:"postId" validate:"required"`
	Body            string `json:"body" validate:"required,lt=5000"`
	ParentCommentID *uint  `json:"parentCommentId"`
}
