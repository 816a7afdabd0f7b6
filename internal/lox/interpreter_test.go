package lox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run compiles and interprets src, returning everything printed to stdout
// and any parse, resolve, or runtime error. A scan error fails the test.
func run(t *testing.T, src string) (string, error) {
	t.Helper()

	scanner := NewScanner([]byte(src))
	tokens := scanner.Scan()
	require.False(t, scanner.HadError(), "unexpected scan errors: %v", scanner.Errors())

	parser := NewParser(tokens)
	prog, err := parser.Parse()
	if err != nil {
		return "", err
	}

	resolver := NewResolver(hclog.NewNullLogger())
	locals, err := resolver.Resolve(prog)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	interp := NewInterpreter(locals, &out, hclog.NewNullLogger())
	if err := interp.Interpret(prog); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

func TestArithmetic(t *testing.T) {
	out, err := run(t, `print 25 / 5 + 2 * 4;`)
	require.NoError(t, err)
	assert.Equal(t, "13\n", out)
}

func TestShadowingInBlock(t *testing.T) {
	out, err := run(t, `var t=5; { var t=10; print t; } print t;`)
	require.NoError(t, err)
	assert.Equal(t, "10\n5\n", out)
}

func TestClosureOverMutableState(t *testing.T) {
	src := `fun makeCounter(){var i=0; fun c(){i=i+1; return i;} return c;} var k=makeCounter(); print k(); print k();`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

// TestClassicResolverBug guards against resolving a VariableExpr by name at
// call time instead of by its statically recorded distance: showA must
// keep closing over the global `a` it resolved against, even after a new
// block-local `a` shadows it (spec §8 scenario 4).
func TestClassicResolverBug(t *testing.T) {
	src := `var a="global"; { fun showA(){print a;} showA(); var a="block"; showA(); }`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "global\nglobal\n", out)
}

func TestClassInitAndThis(t *testing.T) {
	src := `class Greeter { init(n){ this.n=n; } hi(){ print "hi "+this.n; } } Greeter("world").hi();`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "hi world\n", out)
}

func TestSuperInheritance(t *testing.T) {
	src := `class A{f(){print "A";}} class B<A{f(){super.f(); print "B";}} B().f();`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "A\nB\n", out)
}

func TestShortCircuitOr(t *testing.T) {
	src := `fun sideEffect(){print "evaluated"; return true;} print true or sideEffect();`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out, "or must not evaluate its right side when the left is truthy")
}

func TestShortCircuitAnd(t *testing.T) {
	src := `fun sideEffect(){print "evaluated"; return true;} print false and sideEffect();`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out, "and must not evaluate its right side when the left is falsy")
}

func TestRuntimeErrorStringPlusNumber(t *testing.T) {
	_, err := run(t, `"1"+1;`)
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "two numbers or two strings")
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print nope;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'nope'")
}

func TestClockIsCallableWithZeroArity(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestNumberDisplayHasNoTrailingDecimalForIntegers(t *testing.T) {
	out, err := run(t, `print 10; print 10/4;`)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "10", lines[0])
	assert.Equal(t, "2.5", lines[1])
}

func TestFieldsAreMutablePerInstance(t *testing.T) {
	src := `class Box{} var a=Box(); var b=Box(); a.v=1; b.v=2; print a.v; print b.v;`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}
