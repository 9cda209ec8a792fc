package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TestFunc is one parsed test function with its documented behavior.
type TestFunc struct {
	Name     string // Function name (e.g., "TestShare_Idempotent")
	Scenario string // Text after the "Scenario:" marker
	Expected string // Text after the "Expected:" marker
	Summary  string // First doc line, used when no markers are present
	Line     int    // Line number in source file
}

// TestFile is one parsed test file.
type TestFile struct {
	Name  string
	Path  string
	Tests []TestFunc
}

// TestPackage is a collection of test files in one package.
type TestPackage struct {
	Name       string // Package path relative to the module root
	Files      []TestFile
	TotalTests int
}

// ParseTestFiles walks the directory tree and parses all *_test.go files.
// If integrationOnly is true, only files matching *_integration_test.go are
// included.
func ParseTestFiles(root string, integrationOnly bool) ([]TestPackage, error) {
	packageMap := make(map[string]*TestPackage)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip what the go tool skips: vendor, hidden and underscore dirs.
		if info.IsDir() {
			name := info.Name()
			if name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(info.Name(), "_test.go") {
			return nil
		}
		if integrationOnly && !strings.HasSuffix(info.Name(), "_integration_test.go") {
			return nil
		}

		testFile, err := parseTestFile(path)
		if err != nil {
			return err
		}
		if len(testFile.Tests) == 0 {
			return nil
		}

		dir := filepath.Dir(path)
		pkgPath, err := filepath.Rel(root, dir)
		if err != nil {
			pkgPath = dir
		}
		if pkgPath == "." {
			pkgPath = filepath.Base(root)
		}
		pkgPath = filepath.ToSlash(pkgPath)

		pkg, ok := packageMap[pkgPath]
		if !ok {
			pkg = &TestPackage{Name: pkgPath}
			packageMap[pkgPath] = pkg
		}
		pkg.Files = append(pkg.Files, *testFile)
		pkg.TotalTests += len(testFile.Tests)

		return nil
	})
	if err != nil {
		return nil, err
	}

	packages := make([]TestPackage, 0, len(packageMap))
	for _, pkg := range packageMap {
		sort.Slice(pkg.Files, func(i, j int) bool {
			return pkg.Files[i].Name < pkg.Files[j].Name
		})
		packages = append(packages, *pkg)
	}
	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})

	return packages, nil
}

// parseTestFile parses a single test file and extracts test functions.
func parseTestFile(path string) (*TestFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	testFile := &TestFile{
		Name: filepath.Base(path),
		Path: path,
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if !strings.HasPrefix(fn.Name.Name, "Test") || !isTestFunction(fn) {
			continue
		}

		testFunc := TestFunc{
			Name: fn.Name.Name,
			Line: fset.Position(fn.Pos()).Line,
		}
		if fn.Doc != nil {
			doc := strings.TrimSpace(fn.Doc.Text())
			testFunc.Summary = firstLine(doc, fn.Name.Name)
			testFunc.Scenario, testFunc.Expected = splitScenario(doc)
		}

		testFile.Tests = append(testFile.Tests, testFunc)
	}

	return testFile, nil
}

// splitScenario extracts the Scenario: and Expected: sections of a test doc
// comment. Wrapped lines are folded into the section they continue.
func splitScenario(doc string) (scenario, expected string) {
	var cur *string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Scenario:"):
			scenario = strings.TrimSpace(strings.TrimPrefix(line, "Scenario:"))
			cur = &scenario
		case strings.HasPrefix(line, "Expected:"):
			expected = strings.TrimSpace(strings.TrimPrefix(line, "Expected:"))
			cur = &expected
		case line == "":
			cur = nil
		case cur != nil:
			*cur += " " + line
		}
	}
	return scenario, expected
}

// firstLine returns the first non-empty doc line with the function name
// prefix stripped.
func firstLine(doc, testName string) string {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, testName+" ")
		if len(line) > 0 {
			line = strings.ToUpper(line[:1]) + line[1:]
		}
		return line
	}
	return ""
}

// isTestFunction checks if the function signature matches a test function.
func isTestFunction(fn *ast.FuncDecl) bool {
	if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 {
		return false
	}

	param := fn.Type.Params.List[0]
	starExpr, ok := param.Type.(*ast.StarExpr)
	if !ok {
		return false
	}

	selExpr, ok := starExpr.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}

	ident, ok := selExpr.X.(*ast.Ident)
	if !ok {
		return false
	}

	return ident.Name == "testing" && (selExpr.Sel.Name == "T" || selExpr.Sel.Name == "B")
}
