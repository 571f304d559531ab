// Package repository is the Record Store: generic CRUD with soft delete over one table.
//
// A Descriptor declares what a table looks like (columns, filterable, searchable and
// sortable fields, slug addressability). PostgresRepository turns it into SQL on a pgx
// pool and MemoryRepository keeps the same semantics in process for tests.
package repository
