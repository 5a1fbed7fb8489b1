// Package supplychain holds the distribution hierarchy model: contacts,
// networks linked to their providers, and the products each network
// distributes. It owns the hierarchy depth rule and the access gate used by
// every entry point.
package supplychain
