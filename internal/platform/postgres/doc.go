// Package postgres provides a PostgreSQL implementation of task.JobStore,
// using the pgx driver through database/sql and goose for schema migrations.
//
// The store is optional: without jobs.database_url the server keeps job records
// in memory and they are lost on restart.
package postgres
