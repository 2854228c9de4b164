// Package srs implements the spaced repetition scheduling algorithm used to
// plan word reviews. It follows the continuous SM-2 formula: an easiness
// factor adjusted by answer outcomes drives multiplicative interval growth,
// with fixed intervals for the first two successful repetitions and a full
// reset on any wrong answer.
//
// The package exposes pure functions plus a small Service interface so
// callers can inject alternative parameter sets. All updates are immutable:
// a new word value is returned and the input is left untouched.
package srs
