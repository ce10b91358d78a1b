package test

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresPort = "5432/tcp"

// LocalTestFixture runs a throwaway postgres instance for integration tests.
type LocalTestFixture struct {
	container   testcontainers.Container
	DatabaseURL string
}

func NewLocalTestFixture(ctx context.Context) (*LocalTestFixture, error) {
	request := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     "plaza",
			"POSTGRES_PASSWORD": "plaza",
			"POSTGRES_DB":       "plaza",
		},
		WaitingFor: wait.ForListeningPort(nat.Port(postgresPort)).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: request,
		Started:          true,
	})
	if err != nil {
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}

	mappedPort, err := container.MappedPort(ctx, nat.Port(postgresPort))
	if err != nil {
		return nil, err
	}

	databaseURL := fmt.Sprintf(
		"postgres://plaza:plaza@%s:%s/plaza?sslmode=disable",
		host,
		mappedPort.Port(),
	)

	return &LocalTestFixture{container: container, DatabaseURL: databaseURL}, nil
}

func (f *LocalTestFixture) Stop(ctx context.Context) error {
	return f.container.Terminate(ctx)
}
