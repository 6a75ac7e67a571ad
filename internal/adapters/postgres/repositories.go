package postgres

import (
	"github.com/reelpilot/autopost/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Accounts ports.AccountRepository
	Proxies  ports.ProxyRepository
	Videos   ports.VideoRepository
	Jobs     ports.JobRepository
	Outbox   ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Accounts: &accountRepository{db: db},
		Proxies:  &proxyRepository{db: db},
		Videos:   &videoRepository{db: db},
		Jobs:     &jobRepository{db: db},
		Outbox:   &outboxRepository{db: db},
	}
}
