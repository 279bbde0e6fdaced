package expr

import "math"

func powImpl(a, b float64) float64 { return math.Pow(a, b) }

// fnSpec couples a callable with symbolic differentiation for the chain
// rule: diff returns d/dsymbol of fn(args...) given the already-built
// argument subexpressions.
type fnSpec struct {
	arity int
	eval  func(args []float64) float64
	diff  func(args []node, symbol string) node
}

var functions map[string]fnSpec

func init() {
	functions = map[string]fnSpec{
		"exp": {1, func(a []float64) float64 { return math.Exp(a[0]) },
			func(args []node, symbol string) node {
				return binOpNode{opMul, callNode{"exp", args}, args[0].diff(symbol)}
			}},
		"log": {1, func(a []float64) float64 { return math.Log(a[0]) },
			func(args []node, symbol string) node {
				return binOpNode{opDiv, args[0].diff(symbol), args[0]}
			}},
		"sqrt": {1, func(a []float64) float64 { return math.Sqrt(a[0]) },
			func(args []node, symbol string) node {
				return binOpNode{opDiv, args[0].diff(symbol),
					binOpNode{opMul, constNode(2), callNode{"sqrt", args}}}
			}},
		"abs": {1, func(a []float64) float64 { return math.Abs(a[0]) },
			func(args []node, symbol string) node {
				return binOpNode{opMul, callNode{"sign", args}, args[0].diff(symbol)}
			}},
		"sign": {1, func(a []float64) float64 {
			switch {
			case a[0] > 0:
				return 1
			case a[0] < 0:
				return -1
			default:
				return 0
			}
		}, func(args []node, symbol string) node { return constNode(0) }},
		"sin": {1, func(a []float64) float64 { return math.Sin(a[0]) },
			func(args []node, symbol string) node {
				return binOpNode{opMul, callNode{"cos", args}, args[0].diff(symbol)}
			}},
		"cos": {1, func(a []float64) float64 { return math.Cos(a[0]) },
			func(args []node, symbol string) node {
				return binOpNode{opMul, unaryNegNode{callNode{"sin", args}}, args[0].diff(symbol)}
			}},
		"tan": {1, func(a []float64) float64 { return math.Tan(a[0]) },
			func(args []node, symbol string) node {
				sec2 := binOpNode{opDiv, constNode(1), binOpNode{opMul, callNode{"cos", args}, callNode{"cos", args}}}
				return binOpNode{opMul, sec2, args[0].diff(symbol)}
			}},
		"pow": {2, func(a []float64) float64 { return math.Pow(a[0], a[1]) },
			func(args []node, symbol string) node {
				return diffPow(args[0], args[1], symbol)
			}},
	}
}

// diffPow implements d/dsymbol(u^v) for the general case, falling back from
// the constant-exponent power rule to the full log-derivative form
// v*u^(v-1)*u' + u^v*log(u)*v' when v depends on symbol too.
func diffPow(u, v node, symbol string) node {
	du := u.diff(symbol)
	dv := v.diff(symbol)
	if dvc, ok := dv.(constNode); ok && dvc == 0 {
		// pure power rule: v * u^(v-1) * u'
		vMinus1 := binOpNode{opSub, v, constNode(1)}
		return binOpNode{opMul,
			binOpNode{opMul, v, binOpNode{opPow, u, vMinus1}},
			du,
		}
	}
	term1 := binOpNode{opMul,
		binOpNode{opMul, v, binOpNode{opPow, u, binOpNode{opSub, v, constNode(1)}}},
		du,
	}
	term2 := binOpNode{opMul,
		binOpNode{opMul, binOpNode{opPow, u, v}, callNode{"log", []node{u}}},
		dv,
	}
	return binOpNode{opAdd, term1, term2}
}
