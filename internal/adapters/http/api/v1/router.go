package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/holomate/backend/internal/adapters/http/api/v1/handlers"
)

// AuthRouter wires the auth service surface. Credential endpoints live
// unversioned at the root; the current user's profile and subscriptions
// sit under the API group.
type AuthRouter struct {
	auth          *handlers.AuthHandler
	users         *handlers.UserHandler
	subscriptions *handlers.SubscriptionHandler
}

func NewAuthRouter(auth *handlers.AuthHandler, users *handlers.UserHandler, subscriptions *handlers.SubscriptionHandler) *AuthRouter {
	return &AuthRouter{auth: auth, users: users, subscriptions: subscriptions}
}

func (r *AuthRouter) Register(root *echo.Echo, api *echo.Group) {
	auth := root.Group("/auth")
	auth.POST("/register", r.auth.Register)
	auth.POST("/login", r.auth.Login)
	auth.POST("/refresh", r.auth.Refresh)
	auth.POST("/logout", r.auth.Logout)

	users := api.Group("/users")
	users.GET("/me", r.users.Me)
	users.PUT("/me", r.users.UpdateMe)
	users.DELETE("/me", r.users.DeactivateMe)

	subs := api.Group("/subscriptions")
	subs.POST("", r.subscriptions.Create)
	subs.GET("", r.subscriptions.List)
	subs.GET("/:id", r.subscriptions.Get)
	subs.DELETE("/:id", r.subscriptions.Cancel)
}

// AIRouter wires companions, their voice profiles, conversations and
// the message exchange.
type AIRouter struct {
	companions    *handlers.CompanionHandler
	conversations *handlers.ConversationHandler
	voices        *handlers.VoiceProfileHandler
}

func NewAIRouter(companions *handlers.CompanionHandler, conversations *handlers.ConversationHandler, voices *handlers.VoiceProfileHandler) *AIRouter {
	return &AIRouter{companions: companions, conversations: conversations, voices: voices}
}

func (r *AIRouter) Register(_ *echo.Echo, api *echo.Group) {
	companions := api.Group("/ai-companions")
	companions.POST("", r.companions.Create)
	companions.GET("", r.companions.List)
	companions.GET("/:id", r.companions.Get)
	companions.PUT("/:id", r.companions.Update)
	companions.DELETE("/:id", r.companions.Delete)

	voices := api.Group("/voice-profiles")
	voices.POST("", r.voices.Create)
	voices.GET("", r.voices.List)
	voices.GET("/:id", r.voices.Get)
	voices.PUT("/:id", r.voices.Update)
	voices.POST("/:id/activate", r.voices.Activate)
	voices.DELETE("/:id", r.voices.Delete)

	conversations := api.Group("/conversations")
	conversations.POST("", r.conversations.Create)
	conversations.GET("", r.conversations.List)
	conversations.GET("/:id", r.conversations.Get)
	conversations.PUT("/:id", r.conversations.Update)
	conversations.DELETE("/:id", r.conversations.Delete)
	conversations.POST("/:id/messages", r.conversations.CreateMessage)
	conversations.GET("/:id/messages", r.conversations.ListMessages)

	messages := api.Group("/messages")
	messages.GET("/:id", r.conversations.GetMessage)
	messages.DELETE("/:id", r.conversations.DeleteMessage)
}

// StreamingRouter wires hologram devices and their streaming sessions.
type StreamingRouter struct {
	devices  *handlers.DeviceHandler
	sessions *handlers.StreamingHandler
}

func NewStreamingRouter(devices *handlers.DeviceHandler, sessions *handlers.StreamingHandler) *StreamingRouter {
	return &StreamingRouter{devices: devices, sessions: sessions}
}

func (r *StreamingRouter) Register(_ *echo.Echo, api *echo.Group) {
	devices := api.Group("/devices")
	devices.POST("", r.devices.Register)
	devices.GET("", r.devices.List)
	devices.GET("/:id", r.devices.Get)
	devices.PUT("/:id", r.devices.Update)
	devices.DELETE("/:id", r.devices.Delete)
	devices.POST("/:id/heartbeat", r.devices.Heartbeat)

	sessions := api.Group("/streaming/sessions")
	sessions.POST("", r.sessions.Start)
	sessions.GET("", r.sessions.List)
	sessions.GET("/:id", r.sessions.Get)
	sessions.POST("/:id/heartbeat", r.sessions.Heartbeat)
	sessions.POST("/:id/end", r.sessions.End)
	sessions.DELETE("/:id", r.sessions.Delete)
}
