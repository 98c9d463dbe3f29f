package auth

import "errors"

var (
	// ErrInvalidCredentials is returned on login when the email is unknown or
	// the password does not verify. Deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrResetTokenInvalid covers both a wrong and an expired reset token so
	// the two cases cannot be told apart externally.
	ErrResetTokenInvalid = errors.New("token is invalid or has expired")

	// ErrCurrentPasswordWrong is returned by UpdatePassword when the supplied
	// current password does not match the stored hash.
	ErrCurrentPasswordWrong = errors.New("your current password is wrong")

	// ErrEmailSend is returned when the reset email could not be dispatched.
	// The reset token state has already been rolled back at that point.
	ErrEmailSend = errors.New("there was an error sending the email, try again later")

	// ErrTokenUserGone is returned by CurrentUser when the token references a
	// user that no longer exists (or was soft-deleted).
	ErrTokenUserGone = errors.New("the user belonging to this token no longer exists")

	// ErrPasswordChanged is returned by CurrentUser when the password was
	// changed after the token was issued.
	ErrPasswordChanged = errors.New("password was changed after this token was issued")

	// ErrGenToken is returned when we cannot sign a JWT.
	ErrGenToken = errors.New("failed to generate token")
)
