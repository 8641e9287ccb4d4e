package internalcheck

import (
	"fmt"
	"go/ast"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// The scalar-multiplication ladder must stay branchless: a data-dependent
// branch or a variable-time comparison on the ladder registers leaks the
// secret scalar through the execution time. This pins the ladder and its
// helpers to mask-based selection only.
func TestScalarLadderIsBranchless(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, "github.com/avilaops/avila-crypto-go/pkg/avcrypto/curve")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	// Functions on the secret-scalar path. jacToAffine and the public-point
	// Add helpers are allowed to branch; these are not. ScalarMul itself may
	// branch on the public Infinity flag but must not call variable-time
	// comparisons.
	branchless := map[string]bool{
		"jacAddLadder": true,
		"jacDouble":    true,
		"jacCondSwap":  true,
		"jacSelect":    true,
	}
	variableTime := map[string]bool{
		"Cmp":    true,
		"IsZero": true,
		"IsOne":  true,
		"IsEven": true,
	}

	var findings []string
	seen := map[string]bool{}

	for _, pkg := range pkgs {
		fset := pkg.Fset
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || fn.Body == nil {
					continue
				}
				name := fn.Name.Name
				if !branchless[name] && name != "ScalarMul" {
					continue
				}
				seen[name] = true

				ast.Inspect(fn.Body, func(n ast.Node) bool {
					switch node := n.(type) {
					case *ast.IfStmt:
						if branchless[name] {
							pos := fset.Position(node.Pos())
							findings = append(findings, fmt.Sprintf("%s: branch inside %s", pos, name))
						}
					case *ast.CallExpr:
						if sel, ok := node.Fun.(*ast.SelectorExpr); ok && variableTime[sel.Sel.Name] {
							pos := fset.Position(node.Pos())
							findings = append(findings, fmt.Sprintf("%s: variable-time %s call inside %s", pos, sel.Sel.Name, name))
						}
					}
					return true
				})
			}
		}
	}

	for name := range branchless {
		if !seen[name] {
			t.Fatalf("ladder helper %s not found; update this check if it was renamed", name)
		}
	}
	if !seen["ScalarMul"] {
		t.Fatal("ScalarMul not found")
	}
	if len(findings) > 0 {
		t.Fatalf("scalar ladder policy violation:\n%s", strings.Join(findings, "\n"))
	}
}
