package routes

import (
	"errors"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tangerineArc/campus-roots-backend/chat"
	"github.com/tangerineArc/campus-roots-backend/services"
	"github.com/tangerineArc/campus-roots-backend/storage"
	"github.com/tangerineArc/campus-roots-backend/utils"
)

func conversationService() *services.ConversationService {
	return services.NewConversationService(storage.DB, chat.NewMessageStore(storage.DB))
}

// GetUserConversations lists the caller's conversations, most recent first.
func GetUserConversations(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	conversations, err := conversationService().SummariesFor(claims.ID)
	if err != nil {
		if errors.Is(err, chat.ErrStoreUnavailable) {
			utils.CreateError(iris.StatusInternalServerError, "Storage Error", "Conversations are unavailable right now.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "conversations": conversations})
}

// GetUserMessages returns the caller's full timeline with another user.
func GetUserMessages(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	otherUserID, err := ctx.Params().GetUint("otherUserId")
	if err != nil || otherUserID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "A valid user id is required.", ctx)
		return
	}

	messages, err := conversationService().HistoryFor(claims.ID, otherUserID)
	if err != nil {
		if errors.Is(err, chat.ErrStoreUnavailable) {
			utils.CreateError(iris.StatusInternalServerError, "Storage Error", "Messages are unavailable right now.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "messages": messages})
}
