package models

import "time"

// Business is an isolated set of books. Every business gets its own data
// directory; no store file is shared between two businesses.
type Business struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Currency string    `yaml:"currency"`
	Note     string    `yaml:"note,omitempty"`
	Created  time.Time `yaml:"created"`
}

// Branch is a physical location of a business (a stall, a shopfront).
// Plans and goals can be pinned to a branch via BranchID.
type Branch struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Location string `yaml:"location,omitempty"`
	Note     string `yaml:"note,omitempty"`
}
