package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/analysis/singlechecker"
	"golang.org/x/tools/go/ast/inspector"
)

const doc = `stdoutexit checks calls that break the results channel of a search command

This analyzer reports:
1. Usage of panic() function
2. Calls to log.Fatal*() or os.Exit() outside main function of main package
3. Printing to stdout with fmt.Print*() outside main package, stdout carries the results`

var Analyzer = &analysis.Analyzer{
	Name:     "stdoutexit",
	Doc:      doc,
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func main() {
	singlechecker.Main(Analyzer)
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspector.Preorder(nodeFilter, func(node ast.Node) {
		callExpr := node.(*ast.CallExpr)

		// panic()
		if ident, ok := callExpr.Fun.(*ast.Ident); ok && ident.Name == "panic" {
			pass.Reportf(callExpr.Pos(), "panic() should not be used, return an error instead")
			return
		}

		selExpr, ok := callExpr.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		xIdent, ok := selExpr.X.(*ast.Ident)
		if !ok {
			return
		}
		pkgName := xIdent.Name
		funcName := selExpr.Sel.Name

		switch {
		case pkgName == "log" && strings.HasPrefix(funcName, "Fatal"):
			if !isInMainFunction(pass, node) {
				pass.Reportf(callExpr.Pos(), "log.%s() should only be called from main function in main package", funcName)
			}
		case pkgName == "os" && funcName == "Exit":
			if !isInMainFunction(pass, node) {
				pass.Reportf(callExpr.Pos(), "os.Exit() should only be called from main function in main package")
			}
		case pkgName == "fmt" && isStdoutPrint(funcName):
			if pass.Pkg.Name() != "main" {
				pass.Reportf(callExpr.Pos(), "fmt.%s() writes to stdout, which carries the command results", funcName)
			}
		}
	})

	return nil, nil
}

func isStdoutPrint(funcName string) bool {
	switch funcName {
	case "Print", "Printf", "Println":
		return true
	}
	return false
}

func isInMainFunction(pass *analysis.Pass, node ast.Node) bool {
	if pass.Pkg.Name() != "main" {
		return false
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == "main" && fn.Recv == nil && fn.Body != nil {
				if node.Pos() >= fn.Body.Lbrace && node.Pos() <= fn.Body.Rbrace {
					return true
				}
			}
		}
	}
	return false
}
