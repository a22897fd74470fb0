package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/brightpath/platform/pkg/store/postgres"
)

func dsnFromFlags(cmd *cobra.Command) (string, error) {
	dsn, err := cmd.Flags().GetString("db-dsn")
	if err != nil {
		return "", err
	}

	if dsn != "" {
		return dsn, nil
	}

	host, _ := cmd.Flags().GetString("db-host")
	port, _ := cmd.Flags().GetString("db-port")
	user, _ := cmd.Flags().GetString("db-user")
	password, _ := cmd.Flags().GetString("db-password")
	name, _ := cmd.Flags().GetString("db-name")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, name), nil
}

func connectPool(ctx context.Context, cmd *cobra.Command) (*postgres.Pool, error) {
	dsn, err := dsnFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	pool, err := postgres.Connect(ctx, postgres.Config{DSN: dsn, MaxConns: 2, MinConns: 1})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}

	return pool, nil
}

func kafkaBrokersFromFlags(cmd *cobra.Command) ([]string, error) {
	return cmd.Flags().GetStringSlice("kafka-brokers")
}
