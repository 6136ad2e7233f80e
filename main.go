package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tangerineArc/campus-roots-backend/chat"
	"github.com/tangerineArc/campus-roots-backend/routes"
	"github.com/tangerineArc/campus-roots-backend/storage"
	"github.com/tangerineArc/campus-roots-backend/utils"
)

func main() {
	cfg, cfgErr := utils.LoadConfig()
	if cfgErr != nil {
		log.Fatal("could not load configuration: ", cfgErr)
	}

	logger := utils.InitializeLogger()
	defer logger.Sync()

	db := storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", cfg.AllowedOrigin)
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	// The browser client carries the access token in an httpOnly cookie
	accessTokenVerifier.Extractors = append(accessTokenVerifier.Extractors, func(ctx iris.Context) string {
		return ctx.GetCookie("token")
	})
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	registry := chat.NewRegistry()
	messageStore := chat.NewMessageStore(db)
	dispatcher := chat.NewDispatcher(registry, logger)
	chatServer := chat.NewServer(registry, messageStore, dispatcher, logger)

	app.Get("/chat", accessTokenVerifierMiddleware, chatServer.HandleConnection)

	auth := app.Party("/auth")
	{
		auth.Get("/microsoft", routes.MicrosoftRedirect)
		auth.Get("/microsoft/callback", routes.MicrosoftCallback)
		auth.Get("/status", accessTokenVerifierMiddleware, routes.SendAuthStatus)
		auth.Post("/sign-out", routes.SignOutUser)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	user := app.Party("/api/user", accessTokenVerifierMiddleware)
	{
		user.Get("/conversations", routes.GetUserConversations)
		user.Get("/messages/{otherUserId:uint}", routes.GetUserMessages)
		user.Get("/name/{name}", routes.GetProfileDataByName)
		user.Put("/profile", routes.UpdateProfileData)
		user.Put("/experiences", routes.UpdateExperiences)
		user.Put("/education", routes.UpdateEducation)
		user.Put("/skills", routes.UpdateSkills)
		user.Put("/achievements", routes.UpdateAchievements)
		user.Get("/connections/{id:uint}", utils.UserIDMiddleware, routes.GetConnections)
		user.Put("/connections/add/{id1:uint}/{id2:uint}", routes.AddConnection)
		user.Put("/connections/remove/{id1:uint}/{id2:uint}", routes.RemoveConnection)
		user.Put("/connections/accept/{id1:uint}/{id2:uint}", routes.AcceptConnection)
		user.Get("/{id:uint}", routes.GetProfileData)
	}

	posts := app.Party("/api/posts", accessTokenVerifierMiddleware)
	{
		posts.Get("/data", routes.GetPostsData)
		posts.Get("/comments/likes/{commentId:uint}", routes.GetCommentLikesCount)
		posts.Get("/comments/{id:uint}", routes.GetCommentsData)
		posts.Put("/comments/toggleLikes", routes.ToggleCommentLikes)
		posts.Put("/like", routes.TogglePostLikes)
		posts.Put("/add/comment", routes.AddComment)
		posts.Put("/add", routes.AddPost)
		posts.Put("/delete/{id:uint}", routes.DeletePost)
		posts.Put("/comment/delete/{id:uint}", routes.DeleteComment)
		posts.Get("/{id:uint}", routes.GetPosts)
	}

	app.Listen(":" + cfg.Port)
}
