package interp

import (
	"math/rand"

	"github.com/virchau13/pcse/value"
)

// registerBuiltins installs RND, RANDOMBETWEEN and INT into env's
// function table under the given interned identifier IDs. The lexer
// assigns these IDs the first time each name is used as an
// identifier, exactly like any user-defined function.
func registerBuiltins(env *Env, ids map[string]int64) {
	register := func(name string, paramTypes []value.EType, retType value.EType, fn BuiltinFn) {
		id, ok := ids[name]
		if !ok {
			return
		}
		env.functable[id] = &FuncRecord{
			Name:       name,
			ParamTypes: paramTypes,
			ParamIds:   make([]int64, len(paramTypes)),
			HasReturn:  true,
			ReturnType: retType,
			Kind:       BuiltinFunc,
			Builtin:    fn,
		}
	}

	// RND() -> REAL in [0,1], drawn as n/65535 for a uniform uint16 n,
	// matching the original interpreter's exact construction.
	register("RND", nil, value.ScalarType(value.REAL), func(args []value.EValue) (value.EValue, error) {
		n := uint16(rand.Intn(65536))
		f, err := value.NewFraction(int32(n), 65535)
		if err != nil {
			return value.EValue{}, err
		}
		return value.NewRealValue(f), nil
	})

	// RANDOMBETWEEN(min, max) -> INTEGER, uniform inclusive.
	register("RANDOMBETWEEN",
		[]value.EType{value.ScalarType(value.INTEGER), value.ScalarType(value.INTEGER)},
		value.ScalarType(value.INTEGER),
		func(args []value.EValue) (value.EValue, error) {
			min, max := args[0].Int, args[1].Int
			if max < min {
				return value.EValue{}, runtimeErrorf("RANDOMBETWEEN: max < min")
			}
			n := rand.Int63n(max-min+1) + min
			return value.NewIntValue(n), nil
		})

	// INT(REAL) -> INTEGER, truncating toward zero.
	register("INT", []value.EType{value.ScalarType(value.REAL)}, value.ScalarType(value.INTEGER),
		func(args []value.EValue) (value.EValue, error) {
			return value.NewIntValue(args[0].Frac.ToInt()), nil
		})
}
