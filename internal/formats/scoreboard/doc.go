// Package scoreboard renders the final standings as a spreadsheet with a
// merged title row, one header row and one row per ranked team.
package scoreboard
