// Package store persists Tushle business records (users, clients, invoices,
// leads, tasks, meetings, content, performance snapshots) behind a sqlx
// handle. SQLite is the default backend; Postgres is selected through
// configuration. Schema changes ship as embedded migrations applied in order
// at open time.
package store
