// Package sqlerr translates PostgreSQL errors.
//
// It maps SQLSTATE codes, whether they come out of pgx or through the
// Supabase REST API, into a small set of categories. The connection
// tester turns them into operator hints (a foreign key violation on
// forecast_data becomes "The referenced Break does not exist") and the
// test-db server into errs.HTTPError responses.
package sqlerr
