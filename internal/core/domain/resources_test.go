package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mbuild/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path       string
		linkerExts []string
		want       domain.Category
	}{
		{path: "startup.s", want: domain.CategoryAsm},
		{path: "startup.S", want: domain.CategoryAsm},
		{path: "main.c", want: domain.CategoryC},
		{path: "app.cpp", want: domain.CategoryCpp},
		{path: "app.cc", want: domain.CategoryCpp},
		{path: "app.cxx", want: domain.CategoryCpp},
		{path: "api.h", want: domain.CategoryHeader},
		{path: "api.hpp", want: domain.CategoryHeader},
		{path: "prebuilt.o", want: domain.CategoryObject},
		{path: "libfoo.a", want: domain.CategoryLibrary},
		{path: "libfoo.ar", want: domain.CategoryLibrary},
		{path: "softdevice.hex", want: domain.CategoryHex},
		{path: "boot.bin", want: domain.CategoryBin},
		{path: "flash.ld", want: domain.CategoryLinkerScript},
		{path: "flash.sct", want: domain.CategoryLinkerScript},
		{path: "flash.sct", linkerExts: []string{".ld"}, want: domain.CategoryNone},
		{path: "README.md", want: domain.CategoryNone},
		{path: "Makefile", want: domain.CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Classify(tt.path, tt.linkerExts))
		})
	}
}

func TestResourceSet_AddFile_OneCategoryPerPath(t *testing.T) {
	rs := domain.NewResourceSet()

	require.True(t, rs.AddFile("/src/main.c", domain.CategoryC))
	assert.False(t, rs.AddFile("/src/main.c", domain.CategoryC))
	assert.False(t, rs.AddFile("/src/./main.c", domain.CategoryCpp))
	assert.False(t, rs.AddFile("/src/x.txt", domain.CategoryNone))

	assert.Equal(t, []string{"/src/main.c"}, rs.CSources)
	assert.Empty(t, rs.CppSources)
}

func TestResourceSet_ConfigHeaderAndLibDirs(t *testing.T) {
	rs := domain.NewResourceSet()
	rs.AddFile("/p/"+domain.ConfigHeaderName, domain.CategoryHeader)
	rs.AddFile("/p/lib/libm.a", domain.CategoryLibrary)
	rs.AddFile("/p/lib/libc.a", domain.CategoryLibrary)

	assert.True(t, rs.HasConfig)
	assert.Equal(t, "/p/"+domain.ConfigHeaderName, rs.ConfigHeader)
	assert.Equal(t, []string{"/p/lib"}, rs.LibDirs)
}

func TestResourceSet_FirstLinkerScriptWins(t *testing.T) {
	rs := domain.NewResourceSet()
	rs.AddFile("/a/first.ld", domain.CategoryLinkerScript)
	rs.AddFile("/a/second.ld", domain.CategoryLinkerScript)

	assert.Equal(t, "/a/first.ld", rs.LinkerScript)
}

func TestResourceSet_AddIgnoreFile(t *testing.T) {
	r1 := domain.NewResourceSet()
	r1.AddIgnoreFile("/p/.mbuildignore")
	r1.AddIgnoreFile("/p/./.mbuildignore")

	r2 := domain.NewResourceSet()
	r2.AddIgnoreFile("/p/.mbuildignore")
	r2.AddIgnoreFile("/lib/.mbuildignore")

	r1.Add(r2)
	assert.Equal(t, []string{"/p/.mbuildignore", "/lib/.mbuildignore"}, r1.IgnoreFiles)
}

func TestResourceSet_Add(t *testing.T) {
	t.Run("every source exactly once", func(t *testing.T) {
		r1 := domain.NewResourceSet()
		r1.AddFile("/p/main.c", domain.CategoryC)
		r1.AddFile("/p/shared.c", domain.CategoryC)
		r1.AddIncludeDir("/p")
		r1.AddIncludeDir("/p/inc")

		r2 := domain.NewResourceSet()
		r2.AddFile("/p/shared.c", domain.CategoryC)
		r2.AddFile("/lib/lib.cpp", domain.CategoryCpp)
		r2.AddIncludeDir("/p/inc")
		r2.AddIncludeDir("/lib")

		r1.Add(r2)

		assert.Equal(t, []string{"/p/main.c", "/p/shared.c"}, r1.CSources)
		assert.Equal(t, []string{"/lib/lib.cpp"}, r1.CppSources)
		assert.Equal(t, []string{"/p", "/p/inc", "/lib"}, r1.IncludeDirs)

		seen := map[string]int{}
		for _, s := range r1.Sources() {
			seen[s]++
		}
		for s, n := range seen {
			assert.Equal(t, 1, n, "source %s appears %d times", s, n)
		}
	})

	t.Run("keeps receiver linker script", func(t *testing.T) {
		r1 := domain.NewResourceSet()
		r1.AddFile("/p/app.ld", domain.CategoryLinkerScript)
		r2 := domain.NewResourceSet()
		r2.AddFile("/lib/lib.ld", domain.CategoryLinkerScript)

		r1.Add(r2)
		assert.Equal(t, "/p/app.ld", r1.LinkerScript)
	})

	t.Run("adopts other linker script when receiver has none", func(t *testing.T) {
		r1 := domain.NewResourceSet()
		r2 := domain.NewResourceSet()
		r2.AddFile("/lib/lib.ld", domain.CategoryLinkerScript)
		r2.AddFile("/lib/"+domain.ConfigHeaderName, domain.CategoryHeader)

		r1.Add(r2)
		assert.Equal(t, "/lib/lib.ld", r1.LinkerScript)
		assert.True(t, r1.HasConfig)
	})

	t.Run("relative and absolute spellings collapse", func(t *testing.T) {
		dir, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		t.Chdir(dir)

		r1 := domain.NewResourceSet()
		r1.AddFile("main.c", domain.CategoryC)
		r2 := domain.NewResourceSet()
		r2.AddFile(filepath.Join(dir, "main.c"), domain.CategoryC)

		r1.Add(r2)
		assert.Len(t, r1.CSources, 1)
	})

	t.Run("nil other", func(t *testing.T) {
		r1 := domain.NewResourceSet()
		assert.Same(t, r1, r1.Add(nil))
	})
}

func TestResourceSet_Summary(t *testing.T) {
	rs := domain.NewResourceSet()
	rs.AddIncludeDir("/p")
	rs.AddFile("/p/a.c", domain.CategoryC)
	rs.AddFile("/p/b.c", domain.CategoryC)
	rs.AddFile("/p/a.h", domain.CategoryHeader)
	rs.AddFile("/p/s.S", domain.CategoryAsm)

	summary := rs.Summary()
	assert.Equal(t, 2, summary.Counts["c"])
	assert.Equal(t, 1, summary.Counts["header"])
	assert.Equal(t, 1, summary.Counts["asm"])
	assert.Equal(t, 0, summary.Counts["cpp"])
	assert.Equal(t, []string{"/p"}, summary.IncludeDirs)
	assert.Equal(t, []string{"/p/s.S", "/p/a.c", "/p/b.c"}, rs.Sources())
}
