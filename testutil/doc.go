// Package testutil holds helpers shared by package tests: a silent logger,
// environment isolation and component lifecycle with automatic cleanup.
//
//	func TestServer(t *testing.T) {
//	    srv := server.New(cfg, testutil.Logger())
//	    testutil.Start(t, server.NewComponent(srv)) // stopped when the test ends
//	}
package testutil
