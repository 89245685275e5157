// Package handler is the first layer after the router.
//
// It parses requests, validates them with the validation
// package and calls the service layer.
package handler

import (
	"github.com/deppfellow/surf-tools/internal/server"
	"github.com/deppfellow/surf-tools/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one object.
type Handlers struct {
	Health *HealthHandler
	TestDB *TestDBHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(s, services.TestDB),
		TestDB: NewTestDBHandler(s, services.TestDB),
	}
}
