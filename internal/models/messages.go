package models

// User-facing messages. Kept as constants so handlers, validators and
// tests agree on the exact wording.
const (
	MsgValidationError = "Validation error"

	MsgNameIsRequired     = "Name is required"
	MsgNameMustBeAString  = "Name must be a string"
	MsgNameLength         = "Name length must be between 1 and 100"
	MsgEmailAlreadyExists = "Email already exists"
	MsgEmailIsRequired    = "Email is required"
	MsgEmailIsInvalid     = "Email is invalid"

	MsgEmailOrPasswordIncorrect = "Email or password is incorrect"

	MsgPasswordIsRequired           = "Password is required"
	MsgPasswordMustBeAString        = "Password must be a string"
	MsgPasswordLength               = "Password length must be between 6 and 50"
	MsgPasswordMustBeStrong         = "Password must be strong, at least 1 lowercase, 1 uppercase, 1 number, 1 symbol"
	MsgConfirmPasswordIsRequired    = "Confirm password is required"
	MsgConfirmPasswordMustBeAString = "Confirm password must be a string"
	MsgConfirmPasswordLength        = "Confirm password length must be between 6 and 50"
	MsgConfirmPasswordMustBeStrong  = "Confirm password must be strong, at least 1 lowercase, 1 uppercase, 1 number, 1 symbol"
	MsgPasswordsDoNotMatch          = "Passwords do not match"

	MsgDateOfBirthISO8601 = "Date of birth must be ISO8601"

	MsgLoginSuccess    = "Login success"
	MsgRegisterSuccess = "Register success"
	MsgLogoutSuccess   = "Logout success"

	MsgAccessTokenIsRequired  = "Access token is required"
	MsgAccessTokenIsInvalid   = "Access token is invalid"
	MsgAccessTokenIsExpired   = "Access token is expired"
	MsgRefreshTokenIsRequired = "Refresh token is required"
	MsgRefreshTokenIsInvalid  = "Refresh token is invalid"
	MsgRefreshTokenIsExpired  = "Refresh token is expired"
	MsgRefreshTokenRevoked    = "Refresh token has been revoked or does not exist"

	MsgEmailVerifyTokenIsRequired = "Email verify token is required"
	MsgEmailVerifyTokenIsInvalid  = "Email verify token is invalid"
	MsgEmailVerifyTokenIsExpired  = "Email verify token is expired"
	MsgUserNotFound               = "User not found"
	MsgEmailAlreadyVerified       = "Email already verified"
	MsgEmailVerifySuccess         = "Email verify success"
	MsgEmailAlreadyVerifiedBefore = "Email already verified before"
	MsgResendVerifyEmailSuccess   = "Resend verify email success"

	MsgCheckEmailToResetPassword     = "Check email to reset password"
	MsgForgotPasswordTokenIsRequired = "Forgot password token is required"
	MsgForgotPasswordTokenIsInvalid  = "Forgot password token is invalid"
	MsgForgotPasswordTokenIsExpired  = "Forgot password token is expired"
	MsgVerifyForgotPasswordSuccess   = "Verify forgot password success"
	MsgResetPasswordSuccess          = "Reset password success"

	MsgUserNotVerified = "User not verified"

	MsgGetMeSuccess      = "Get me success"
	MsgUpdateMeSuccess   = "Update me success"
	MsgGetProfileSuccess = "Get profile success"

	MsgBioMustBeAString      = "Bio must be a string"
	MsgBioLength             = "Bio length must be between 1 and 200"
	MsgLocationMustBeAString = "Location must be a string"
	MsgLocationLength        = "Location length must be between 1 and 200"
	MsgWebsiteMustBeAString  = "Website must be a string"
	MsgWebsiteLength         = "Website length must be between 1 and 200"
	MsgUsernameMustBeAString = "Username must be a string"
	MsgUsernameInvalid       = "Username must be 4-15 characters, letters, numbers and underscores only"
	MsgUsernameAlreadyExists = "Username already exists"
	MsgImageURLMustBeAString = "Image url must be a string"
	MsgImageURLLength        = "Image url length must be between 1 and 400"

	MsgInvalidUserID     = "Invalid user id"
	MsgFollowSuccess     = "Follow success"
	MsgAlreadyFollowed   = "Already followed"
	MsgUnfollowSuccess   = "Unfollow success"
	MsgAlreadyUnfollowed = "Already unfollowed"
	MsgCannotFollowSelf  = "Cannot follow yourself"

	MsgInternalServerError = "Internal server error"
)
