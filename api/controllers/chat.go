package controllers

import (
	"net/http"

	"github.com/fundihub/fundihub-backend/api/responses"
	"github.com/fundihub/fundihub-backend/api/validators"
	"github.com/fundihub/fundihub-backend/internal/chat"
	"github.com/fundihub/fundihub-backend/pkg/logger"
)

func chatActor(identity *requestIdentity) chat.Actor {
	return chat.Actor{
		UserID:     identity.UserID,
		Role:       identity.Role,
		ProviderID: identity.ProviderID,
	}
}

// StartConversation opens (or returns) the caller's thread with a provider.
func StartConversation(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req chat.StartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversation, err := svc.Start(r.Context(), identity.UserID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, conversation)
	}
}

// ListConversations returns the caller's threads with unread counts.
func ListConversations(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversations, err := svc.ListConversations(r.Context(), chatActor(identity))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, conversations)
	}
}

// ListMessages returns a thread's messages, newest first.
func ListMessages(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		conversationID, err := pathUUID(r, "conversationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Messages(r.Context(), chatActor(identity), conversationID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SendMessage posts a message to a thread.
func SendMessage(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		conversationID, err := pathUUID(r, "conversationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req chat.SendRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Send(r.Context(), chatActor(identity), conversationID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// MarkConversationRead consumes the unread flag on the other party's messages.
func MarkConversationRead(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		conversationID, err := pathUUID(r, "conversationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), chatActor(identity), conversationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

// ConversationSocket upgrades to a websocket streaming live messages.
func ConversationSocket(svc chat.Service, hub *chat.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		conversationID, err := pathUUID(r, "conversationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Authorize(r.Context(), chatActor(identity), conversationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := hub.ServeConversation(w, r, conversationID); err != nil && logg != nil {
			logg.Error(r.Context(), "websocket upgrade failed", err)
		}
	}
}
