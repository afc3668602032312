// Package datasource opens and manages the external stores an
// application declares by DSN: Redis, Memcache, Postgres and local
// file storage. Each configured DSN is dispatched by scheme to its
// driver at startup, and the resulting connections are handed to the
// request pipeline, where controllers retrieve them by name.
package datasource
