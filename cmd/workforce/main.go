/*
main.go - Application entry point

PURPOSE:
  Runs the workforce command line: the HTTP server and its maintenance
  commands. Each subcommand lives in its own file.

COMMANDS:
  serve     Start the HTTP API and the payroll month-close scheduler
  migrate   Apply (or roll back) the SQLite schema migrations
  seed      Load a demo scenario into the configured store
  payroll   Print a payroll run for one month as a table

CONFIGURATION:
  config.yml in --config (default ".") plus WORKFORCE_* environment
  variables, see config/config.go. Examples:

  # Run with an in-memory store
  WORKFORCE_DATABASE_DRIVER=memory ./workforce serve

  # Run on a different port
  WORKFORCE_SERVER_PORT=3000 ./workforce serve

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

func main() {
	Execute()
}
