package main

import "encoding/json"
import "fmt"
import "os"
import "time"

import "github.com/prataprc/goparsec"
import "github.com/prataprc/monster"
import mcommon "github.com/prataprc/monster/common"

// loadop one request in the load mix. `cmd` is "alloc", to allocate
// and release after `hold`, or "abort", to allocate and abort if the
// request gets queued.
type loadop struct {
	cmd  string
	k    int64
	hold time.Duration
}

// monsterops generate `n` operations from the production file on
// opch. Every evaluation of the start symbol `s` shall yield a JSON
// list of [cmd, k, hold-in-microseconds] operations.
func monsterops(prodfile string, seed uint64, n int, opch chan<- loadop) error {
	defer close(opch)

	text, err := os.ReadFile(prodfile)
	if err != nil {
		return err
	}
	root, err := compile(parsec.NewScanner(text))
	if err != nil {
		return err
	}
	scope := monster.BuildContext(root, seed, "", prodfile)
	nterms := scope["_nonterminals"].(mcommon.NTForms)
	for count := 0; count < n; {
		scope = scope.RebuildContext()
		val, err := evaluate("root", scope, nterms["s"])
		if err != nil {
			return err
		}
		text, ok := val.(string)
		if !ok {
			return fmt.Errorf("production %T, expected string", val)
		}
		ops, err := decodeops([]byte(text))
		if err != nil {
			return err
		}
		for _, op := range ops {
			if count >= n {
				break
			}
			opch <- op
			count++
		}
	}
	return nil
}

func compile(s parsec.Scanner) (root mcommon.Scope, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v at %v", r, s.GetCursor())
		}
	}()
	node, _ := monster.Y(s)
	root, ok := node.(mcommon.Scope)
	if !ok {
		return nil, fmt.Errorf("invalid production file at %v", s.GetCursor())
	}
	return root, nil
}

func evaluate(
	name string, scope mcommon.Scope,
	forms []*mcommon.Form) (val interface{}, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return monster.EvalForms(name, scope, forms), nil
}

// decodeops parse `[[cmd, k, hold], ...]`, cmd can be "alloc" or
// "abort", or 0 and 1 respectively.
func decodeops(data []byte) ([]loadop, error) {
	var cmds [][]interface{}
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, err
	} else if len(cmds) == 0 {
		return nil, fmt.Errorf("production generated no operations")
	}
	ops := make([]loadop, 0, len(cmds))
	for _, cmd := range cmds {
		if len(cmd) != 3 {
			return nil, fmt.Errorf("invalid operation %v", cmd)
		}
		op := loadop{}
		switch name := cmd[0].(type) {
		case string:
			op.cmd = name
		case float64:
			op.cmd = map[float64]string{0: "alloc", 1: "abort"}[name]
		}
		if op.cmd != "alloc" && op.cmd != "abort" {
			return nil, fmt.Errorf("invalid command %v", cmd[0])
		}
		k, ok1 := cmd[1].(float64)
		hold, ok2 := cmd[2].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("invalid operation %v", cmd)
		}
		op.k, op.hold = int64(k), time.Duration(hold)*time.Microsecond
		ops = append(ops, op)
	}
	return ops, nil
}
