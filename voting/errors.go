package voting

import "errors"

var (
	// ErrInvalidCandidate is returned for candidate ids outside [1, candidates].
	ErrInvalidCandidate = errors.New("voting: invalid candidate")
	// ErrVotingClosed is returned for votes after the end block.
	ErrVotingClosed = errors.New("voting: voting period is over")
	// ErrRulesMismatch is returned when a stored session is reopened with different rules.
	ErrRulesMismatch = errors.New("voting: stored session has different rules")
	// ErrNoSession is returned when opening a database that holds no session.
	ErrNoSession = errors.New("voting: no session in database")
)
