package repository

import (
	"fmt"

	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/deppfellow/locallibrary/internal/model"
	"github.com/deppfellow/locallibrary/internal/server"
)

// Repositories is a container for all catalog collections.
type Repositories struct {
	Books     Collection[model.Book]
	Authors   Collection[model.Author]
	Genres    Collection[model.Genre]
	Instances Collection[model.BookInstance]
}

// NewRepositories binds the collections to the backend selected by
// database.driver. The matching connection must already be open on s.
func NewRepositories(s *server.Server) (*Repositories, error) {
	timeout := s.Config.Database.QueryTimeout()

	switch s.Config.Database.Driver {
	case config.DriverMongo:
		if s.Mongo == nil {
			return nil, fmt.Errorf("mongo driver selected but no mongo connection")
		}
		db := s.Mongo.DB
		return &Repositories{
			Books:     NewMongoCollection[model.Book](db, timeout),
			Authors:   NewMongoCollection[model.Author](db, timeout),
			Genres:    NewMongoCollection[model.Genre](db, timeout),
			Instances: NewMongoCollection[model.BookInstance](db, timeout),
		}, nil

	case config.DriverPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("postgres driver selected but no database pool")
		}
		pool := s.DB.Pool
		return &Repositories{
			Books:     NewPostgresCollection[model.Book](pool, timeout),
			Authors:   NewPostgresCollection[model.Author](pool, timeout),
			Genres:    NewPostgresCollection[model.Genre](pool, timeout),
			Instances: NewPostgresCollection[model.BookInstance](pool, timeout),
		}, nil

	case config.DriverMemory:
		return NewMemoryRepositories(), nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", s.Config.Database.Driver)
}

// NewMemoryRepositories returns empty in-process collections.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Books:     NewMemoryCollection[model.Book](),
		Authors:   NewMemoryCollection[model.Author](),
		Genres:    NewMemoryCollection[model.Genre](),
		Instances: NewMemoryCollection[model.BookInstance](),
	}
}
