// Package domain contains the core entities of the vocabulary trainer:
// users, dictionaries, words, training sessions and answer events, together
// with their validation rules. Entities are created through New* constructors
// that validate on construction; persistence and transport concerns live in
// other packages.
package domain
