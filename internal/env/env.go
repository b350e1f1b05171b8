// Package env reports which deployment the process runs in.
package env

import "os"

type Environment string

const (
	Local      Environment = "local"
	Production Environment = "production"

	Key string = "ENV"
)

func (e Environment) Valid() bool {
	switch e {
	case Local, Production:
		return true
	}
	return false
}

// Current is read from ENV once at startup. Anything unknown is Local.
var Current Environment = Local

func init() {
	Current = Parse(os.Getenv(Key))
}

func Parse(v string) Environment {
	e := Environment(v)
	if !e.Valid() {
		return Local
	}
	return e
}
