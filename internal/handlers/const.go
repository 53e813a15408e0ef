package handlers

const (
	MessageLoginInitFailed    = "Failed to initiate Google OAuth"
	MessageProviderError      = "Google OAuth error"
	MessageCodeRequired       = "Authorization code is required"
	MessageInvalidState       = "Invalid state parameter"
	MessageAuthFailed         = "Authentication failed"
	MessageAuthSuccessful     = "Authentication successful"
	MessageUserRetrieved      = "User information retrieved successfully"
	MessageLogoutSuccessful   = "Logout successful. Please discard your token."
	DetailExchangeFailed      = "Failed to exchange code for tokens"
	DetailInvalidGoogleToken  = "Invalid Google token"
	DetailSessionIssueFailed  = "Failed to issue session token"
	MessageItemsRetrieved     = "Items retrieved successfully."
	MessageItemRetrieved      = "Item retrieved successfully."
	MessageItemCreated        = "Item created successfully."
	MessageItemUpdated        = "Item updated successfully."
	MessageItemDeleted        = "Item deleted successfully."
	MessageItemNotFound       = "Item not found."
	MessageInvalidItemPayload = "Invalid item payload."
	DetailItemFieldsRequired  = "name and description are required"
	MessageInternalError      = "Internal Server Error"
)
