package lox

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) *Program {
	t.Helper()
	scanner := NewScanner([]byte(src))
	tokens := scanner.Scan()
	require.False(t, scanner.HadError())

	parser := NewParser(tokens)
	prog, err := parser.Parse()
	require.NoError(t, err)
	return prog
}

func TestResolverRejectsTopLevelReturn(t *testing.T) {
	prog := parseOK(t, `return "x";`)
	_, err := NewResolver(hclog.NewNullLogger()).Resolve(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't return from top-level code.")
}

func TestResolverRejectsValueReturnFromInitializer(t *testing.T) {
	prog := parseOK(t, `class C{init(){return 1;}}`)
	_, err := NewResolver(hclog.NewNullLogger()).Resolve(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't return a value from an initializer.")
}

func TestResolverRejectsSelfReferentialInitializer(t *testing.T) {
	prog := parseOK(t, `{ var a=a; }`)
	_, err := NewResolver(hclog.NewNullLogger()).Resolve(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't read local variable in its own initializer.")
}

func TestResolverRejectsDuplicateLocalDeclaration(t *testing.T) {
	prog := parseOK(t, `{ var a=1; var a=2; }`)
	_, err := NewResolver(hclog.NewNullLogger()).Resolve(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Already a variable with this name in this scope.")
}

func TestResolverRejectsThisOutsideClass(t *testing.T) {
	prog := parseOK(t, `print this;`)
	_, err := NewResolver(hclog.NewNullLogger()).Resolve(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't use 'this' outside of a class.")
}

func TestResolverRejectsSuperOutsideSubclass(t *testing.T) {
	prog := parseOK(t, `class A{f(){super.f();}}`)
	_, err := NewResolver(hclog.NewNullLogger()).Resolve(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't use 'super' outside of a subclass.")
}

func TestResolverRejectsClassInheritingFromItself(t *testing.T) {
	prog := parseOK(t, `class A < A {}`)
	_, err := NewResolver(hclog.NewNullLogger()).Resolve(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "A class can't inherit from itself.")
}

// TestResolverAccumulatesMultipleErrors guards the multierror-based
// reporting: one resolver pass over several independent mistakes reports
// every one of them, not just the first (spec §7).
func TestResolverAccumulatesMultipleErrors(t *testing.T) {
	prog := parseOK(t, `return 1; print this;`)
	_, err := NewResolver(hclog.NewNullLogger()).Resolve(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't return from top-level code.")
	require.Contains(t, err.Error(), "Can't use 'this' outside of a class.")
}
