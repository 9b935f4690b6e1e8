// Package engine contains the day loop and simulation logic.
// This is the heartbeat of OzZoo.
//
// ARCHITECTURAL RULE: all zoo state has exactly ONE mutator, the
// goroutine running Engine.Run. Clock ticks, WebSocket actions and
// REST handlers submit typed Commands into that loop and wait for the
// reply. Systems are called in a fixed phase order inside a day and
// never from anywhere else.
package engine
