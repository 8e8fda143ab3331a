package models

// AccountTypeDiscord is the account type tag sent with every game API call
const AccountTypeDiscord = "Discord"

// Actor identifies the user who issued a command
type Actor struct {
	ID          string
	AccountType string
}

func NewDiscordActor(userID string) Actor {
	return Actor{ID: userID, AccountType: AccountTypeDiscord}
}
