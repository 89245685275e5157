package service

import (
	"github.com/deppfellow/surf-tools/internal/repository"
)

type Services struct {
	TestDB *TestDBService
}

func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		TestDB: NewTestDBService(repos.Breaks, repos.Forecasts),
	}
}
