package routes

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tangerineArc/campus-roots-backend/models"
	"github.com/tangerineArc/campus-roots-backend/storage"
	"github.com/tangerineArc/campus-roots-backend/utils"
)

const (
	microsoftAuthorizeURL = "https://login.microsoftonline.com/%s/oauth2/v2.0/authorize"
	microsoftTokenURL     = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
	microsoftJWKSURL      = "https://login.microsoftonline.com/%s/discovery/v2.0/keys"

	oauthStateTTL = 10 * time.Minute
)

type microsoftTokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// MicrosoftRedirect starts the OAuth handshake with the organizational
// identity provider.
func MicrosoftRedirect(ctx iris.Context) {
	cfg := utils.AppConfig

	state := utils.GenerateShortToken(16)
	if state == "" {
		utils.CreateInternalServerError(ctx)
		return
	}
	storage.Redis.Set(ctx.Request().Context(), "oauth_state:"+state, "pending", oauthStateTTL)

	q := url.Values{}
	q.Set("client_id", cfg.AzureClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", cfg.AzureRedirectURL)
	q.Set("scope", "openid profile email")
	q.Set("state", state)

	ctx.Redirect(fmt.Sprintf(microsoftAuthorizeURL, cfg.AzureTenant)+"?"+q.Encode(), iris.StatusFound)
}

// MicrosoftCallback finishes the handshake: exchanges the code, verifies the
// identity token against the provider's JWKS, gates on the organizational
// email domain and signs the caller in.
func MicrosoftCallback(ctx iris.Context) {
	cfg := utils.AppConfig

	code := ctx.URLParam("code")
	state := ctx.URLParam("state")
	if code == "" || state == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Missing OAuth code or state.", ctx)
		return
	}

	stateKey := "oauth_state:" + state
	if _, err := storage.Redis.Get(ctx.Request().Context(), stateKey).Result(); err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Unknown or expired OAuth state.", ctx)
		return
	}
	storage.Redis.Del(ctx.Request().Context(), stateKey)

	client := resty.New()

	var tokenResponse microsoftTokenResponse
	res, err := client.R().
		SetFormData(map[string]string{
			"client_id":     cfg.AzureClientID,
			"client_secret": cfg.AzureClientSecret,
			"code":          code,
			"grant_type":    "authorization_code",
			"redirect_uri":  cfg.AzureRedirectURL,
			"scope":         "openid profile email",
		}).
		SetResult(&tokenResponse).
		Post(fmt.Sprintf(microsoftTokenURL, cfg.AzureTenant))
	if err != nil || res.IsError() || tokenResponse.IDToken == "" {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Microsoft sign-in could not be completed.", ctx)
		return
	}

	jwksRes, jwksResErr := client.R().Get(fmt.Sprintf(microsoftJWKSURL, cfg.AzureTenant))
	if jwksResErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	jwks, jwksErr := keyfunc.NewJSON(jwksRes.Body())
	if jwksErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	token, tokenErr := jwt.Parse(tokenResponse.IDToken, jwks.Keyfunc)
	if tokenErr != nil || !token.Valid {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid identity token.", ctx)
		return
	}

	claims := token.Claims.(jwt.MapClaims)
	email := strings.ToLower(fmt.Sprint(claims["email"]))
	name := fmt.Sprint(claims["name"])

	if !strings.HasSuffix(email, "@"+cfg.OrgEmailDomain) {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not an organizational account.", ctx)
		return
	}

	role, roleErr := utils.DecideUserRole(email)
	if roleErr != nil {
		utils.CreateError(iris.StatusForbidden, "Forbidden", roleErr.Error(), ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		updateQuery := storage.DB.Model(&user).Updates(models.User{Name: name, Role: role})
		if updateQuery.Error != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	} else {
		user = models.User{Name: name, Email: email, Role: role}
		if err := storage.DB.Create(&user).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	tokenPair, tokenPairErr := utils.CreateTokenPair(user.ID)
	if tokenPairErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.SetCookieKV("token", string(tokenPair.AccessToken),
		iris.CookieHTTPOnly(true),
		iris.CookieSecure,
		iris.CookieSameSite(http.SameSiteLaxMode),
		iris.CookieExpires(24*time.Hour))

	ctx.Redirect(cfg.FrontendRedirectURL, iris.StatusFound)
}

// SendAuthStatus reports the signed-in user behind the presented credential.
func SendAuthStatus(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var user models.User
	query := storage.DB.Limit(1).Find(&user, claims.ID)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "user": user})
}

func SignOutUser(ctx iris.Context) {
	ctx.RemoveCookie("token")
	ctx.JSON(iris.Map{"success": true, "message": "Logged out user"})
}
