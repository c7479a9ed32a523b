package data

import (
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/repo"
	"github.com/rovi1013/coap-telegram-gateway/internal/infra/telegram"
)

// Repositories contains all repositories
type Repositories struct {
	Feed    repo.FeedRepo
	Message repo.MessageRepo
	Archive repo.ArchiveRepo
}

// NewRepositories creates all repositories
func NewRepositories(telegramClient *telegram.Client, archiveDBPath string) (*Repositories, error) {
	archiveRepo, err := NewArchiveRepo(archiveDBPath)
	if err != nil {
		return nil, err
	}

	telegramRepo := NewTelegramRepo(telegramClient)

	return &Repositories{
		Feed:    telegramRepo,
		Message: telegramRepo,
		Archive: archiveRepo,
	}, nil
}
