package pg

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/go-kit/kit/log"

	gallery "github.com/naszahistoria/gallery"
)

// NewTestClient returns a new Client connected to a test database.
// We allow specifying a test DB name to avoid race conditions
// in environment cleanup while tests run in parallel.
func NewTestClient(testDBName string) (*Client, error) {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}

	if testDBName == "" {
		testDBName = "gallery_test"
	}

	sysDBName := "postgres"
	connectionString := "user=gallery password=swordfish host=%s port=5432 dbname=%s connect_timeout=3 sslmode=disable"

	testConnDetails := fmt.Sprintf(connectionString, host, testDBName)
	sysConnDetails := fmt.Sprintf(connectionString, host, sysDBName)

	sysDB, err := sql.Open("postgres", sysConnDetails)
	if err != nil {
		return nil, err
	}
	defer sysDB.Close()

	if err = sysDB.Ping(); err != nil {
		return nil, err
	}

	if _, err = sysDB.Exec("DROP DATABASE IF EXISTS " + testDBName); err != nil {
		return nil, err
	}
	if _, err = sysDB.Exec("CREATE DATABASE " + testDBName); err != nil {
		return nil, err
	}

	testDB, err := sql.Open("postgres", testConnDetails)
	if err != nil {
		return nil, err
	}
	if _, err = testDB.Exec(gallery.Schema); err != nil {
		testDB.Close()
		return nil, err
	}

	c := NewClient(
		WithLogger(log.NewNopLogger()),
		WithDB(testDB),
	)

	return c, nil
}

// DropTestDB removes a test database.
func DropTestDB(c *Client, testDBName string) error {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}

	if err := c.Close(); err != nil {
		return err
	}

	connectionString := "user=gallery password=swordfish host=%s port=5432 dbname=postgres connect_timeout=3 sslmode=disable"
	sysDB, err := sql.Open("postgres", fmt.Sprintf(connectionString, host))
	if err != nil {
		return err
	}
	defer sysDB.Close()

	_, err = sysDB.Exec("DROP DATABASE IF EXISTS " + testDBName)
	return err
}
