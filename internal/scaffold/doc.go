// Package scaffold creates new contract projects from templates. The
// local_default template is bundled with the binary; the others are fetched
// as zip archives from the templates repository.
package scaffold
