package pathmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTestLocation(t *testing.T) {
	tests := []struct {
		name         string
		filePath     string
		expectedPath string
		expectedName string
	}{
		{"python under src", "/out/src/app/foo.py", "/out/tests/app/test_foo.py", "test_foo.py"},
		{"python directly in src keeps dir", "/out/src/foo.py", "/out/src/test_foo.py", "test_foo.py"},
		{"javascript", "/out/web/app.js", "/out/web/__tests__/app.test.js", "app.test.js"},
		{"jsx", "/out/web/App.jsx", "/out/web/__tests__/App.test.jsx", "App.test.jsx"},
		{"typescript", "/out/web/svc.ts", "/out/web/__tests__/svc.test.ts", "svc.test.ts"},
		{"tsx", "/out/web/widget.tsx", "/out/web/__tests__/widget.test.tsx", "widget.test.tsx"},
		{"java main to test", "/out/src/main/java/Bar.java", "/out/src/test/java/BarTest.java", "BarTest.java"},
		{"csharp", "/out/src/Core/Thing.cs", "/out/tests/Core/ThingTests.cs", "ThingTests.cs"},
		{"go stays in place", "/out/pkg/util.go", "/out/pkg/util_test.go", "util_test.go"},
		{"cpp", "/out/lib/engine.cpp", "/out/lib/tests/test_engine.cpp", "test_engine.cpp"},
		{"cxx", "/out/lib/engine.cxx", "/out/lib/tests/test_engine.cxx", "test_engine.cxx"},
		{"cc", "/out/lib/engine.cc", "/out/lib/tests/test_engine.cc", "test_engine.cc"},
		{"c", "/out/lib/engine.c", "/out/lib/tests/test_engine.c", "test_engine.c"},
		{"php", "/out/src/Http/Kernel.php", "/out/tests/Http/KernelTest.php", "KernelTest.php"},
		{"kotlin", "/out/src/main/App.kt", "/out/test/main/AppTest.kt", "AppTest.kt"},
		{"kotlin script", "/out/src/build.kts", "/out/src/buildTest.kts", "buildTest.kts"},
		{"swift", "/out/Sources/Core/View.swift", "/out/Tests/Core/ViewTests.swift", "ViewTests.swift"},
		{"rust", "/out/src/net/conn.rs", "/out/tests/net/conn_test.rs", "conn_test.rs"},
		{"unknown extension uses generic rule", "/out/lib/tool.rb", "/out/lib/__tests__/tool.test.rb", "tool.test.rb"},
		{"multiple dots use last extension", "/out/lib/app.module.ts", "/out/lib/__tests__/app.module.test.ts", "app.module.test.ts"},
		{"extension matching is case-insensitive", "/out/src/app/Foo.PY", "/out/tests/app/test_Foo.py", "test_Foo.py"},
		{"generated names keep extension case", "/out/web/Widget.TSX", "/out/web/__tests__/Widget.test.TSX", "Widget.test.TSX"},
		{"backslash input", "C:\\out\\pkg\\util.go", "C:/out/pkg/util_test.go", "util_test.go"},
		{"relative file without directory", "Bar.java", "BarTest.java", "BarTest.java"},
		{"file at filesystem root", "/a.py", "/test_a.py", "test_a.py"},
		{"hidden file", "/out/.env", "", ""},
		{"hidden file with extension", "/out/.eslintrc.js", "", ""},
		{"no extension", "/out/Makefile", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testPath, testName := ResolveTestLocation(tt.filePath)
			assert.Equal(t, tt.expectedPath, testPath)
			assert.Equal(t, tt.expectedName, testName)
		})
	}
}

func TestResolveTestLocationIsDeterministic(t *testing.T) {
	for _, p := range []string{"foo.py", "Bar.java", "util.go", "widget.tsx"} {
		firstPath, firstName := ResolveTestLocation(p)
		secondPath, secondName := ResolveTestLocation(p)
		assert.Equal(t, firstPath, secondPath)
		assert.Equal(t, firstName, secondName)
	}
}

func TestRuleFor(t *testing.T) {
	rule, ok := RuleFor(".JAVA")
	assert.True(t, ok)
	assert.Equal(t, "Java", rule.Language)

	rule, ok = RuleFor(".rb")
	assert.False(t, ok)
	assert.Equal(t, defaultRule, rule)
	assert.Len(t, rules, 17)
}

func TestIsTestable(t *testing.T) {
	assert.True(t, IsTestable("/a/b/c.py"))
	assert.False(t, IsTestable("/a/b/.env"))
	assert.False(t, IsTestable("/a/b/LICENSE"))
}

func TestDirRuleApply(t *testing.T) {
	replace := DirRule{Kind: DirReplace, From: "/src/", To: "/tests/"}
	assert.Equal(t, "/a/tests/b/tests/c", replace.Apply("/a/src/b/src/c"))
	assert.Equal(t, "/a/lib", replace.Apply("/a/lib"))

	appendRule := DirRule{Kind: DirAppend, Sub: "__tests__"}
	assert.Equal(t, "__tests__", appendRule.Apply(""))
	assert.Equal(t, "/a/__tests__", appendRule.Apply("/a"))

	assert.Equal(t, "/a", DirRule{}.Apply("/a"))
}
