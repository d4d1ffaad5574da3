// Package commands defines the fieldpostctl CLI.
//
// Commands
//
//   - send      Submit a dispatch update (text and/or photos) in one shot
//   - officers  List officers known to the intake server
//   - calls     List an officer's calls
//   - tail      Print a call's updates, optionally following new ones
//
// The root command loads configuration and builds the intake client before
// any subcommand runs, so handlers share one endpoint and timeout.
package commands
