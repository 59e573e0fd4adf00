// Package domjudge talks to the contest REST API of a DOMjudge instance.
//
// A Client runs in one of two modes. Live clients issue authenticated GET
// requests against `{base_url}/api/{version}/contests/{cid}/...`; replay
// clients read the `domjudge/api` mirror written by an earlier export and
// never touch the network. Text payloads are transcoded from the charset
// announced in Content-Type; binary and media fetches return raw bytes.
package domjudge
