package identity

import "context"

// Profile is what the chat platform knows about a user. The platform
// user id doubles as the implicit login credential once it has been
// linked to a staff id in the directory.
type Profile struct {
	UserID      string
	DisplayName string
}

// Provider abstracts the chat-platform SDK. Domain services depend on
// this interface only and never talk to the platform directly.
//
//go:generate mockgen -source=provider.go -destination=mock/provider_mock.go -package=mock
type Provider interface {
	Verify(ctx context.Context, accessToken string) (Profile, error)
}
