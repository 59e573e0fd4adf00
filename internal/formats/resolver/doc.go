// Package resolver renders the Resolver-JSON animation file (resolver.json).
//
// The document is compact JSON with members in a fixed order and keyed
// objects (users, solutions) serialized in insertion order.
package resolver
