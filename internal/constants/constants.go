package constants

// Centralized constants for headers, env keys and the OpenAI integration.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvOpenAIAPIKey        = "OPENAI_API_KEY"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "TOWERFLIP_CONFIG"
	EnvDBPath              = "TOWERFLIP_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	BearerPrefix = "Bearer "

	// OpenAI API endpoints and base URL
	OpenAIBaseURL             = "https://api.openai.com"
	OpenAIChatCompletionsPath = "/v1/chat/completions"

	OpenAIChatModel = "gpt-5-nano"

	// Session / Cookie names
	CookieSessionName = "tf_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteVersion            = "/version"
	RouteLeaderboard        = "/leaderboard"
	RouteRuns               = "/runs"
	RouteRunByID            = "/runs/:runID"
	RouteRunFlip            = "/runs/:runID/flip"
	RouteRunAdvance         = "/runs/:runID/advance"
	RouteRunAbandon         = "/runs/:runID/abandon"
	RouteRunEvents          = "/runs/:runID/events"
	RouteProgress           = "/progress"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrMissingGoogleEnv = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrInvalidRunID     = "Invalid run ID"
	ErrRunNotFound      = "Run not found"
	ErrRunNotYours      = "Run belongs to another player"
	ErrRunAlreadyOver   = "Run is already over"
	ErrRunNotAdvancable = "Run is not waiting on a floor advance"
	ErrFailedStartRun   = "Failed to start run"
	ErrFailedSaveRun    = "Failed to save run"

	ErrFailedFetchProgress    = "Failed to fetch progress"
	ErrFailedSaveProgress     = "Failed to save progress"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedUpgradeWebsocket = "Failed to upgrade websocket"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldRunID  = "run_id"
	LogFieldPlayer = "player"
	LogFieldFloor  = "floor"
	LogFieldState  = "state"
	LogFieldEnemy  = "enemy"
	LogFieldKey    = "key"
	LogFieldAddr   = "addr"
)
