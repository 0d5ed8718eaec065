// Package testutil holds the deterministic step clock used by the scenario
// harness, plus small helpers shared by package tests.
package testutil
