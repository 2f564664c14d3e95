/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "some.txt")
	assert.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	// absolute path to an existing file resolves to itself
	resolved, err := ResolveFile(file)
	assert.NoError(t, err)
	assert.Equal(t, file, resolved)

	// a directory is not a file
	_, err = ResolveFile(dir)
	assert.Error(t, err)

	// missing file
	_, err = ResolveFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestResolveFolder(t *testing.T) {
	dir := t.TempDir()

	resolved, err := ResolveFolder(dir)
	assert.NoError(t, err)
	assert.Equal(t, dir, resolved)

	// a relative path is resolved against the working directory
	wd, _ := os.Getwd()
	sub := filepath.Base(wd)
	assert.NoError(t, os.Chdir(filepath.Dir(wd)))
	defer func() { _ = os.Chdir(wd) }()
	resolved, err = ResolveFolder(sub)
	assert.NoError(t, err)
	assert.Equal(t, wd, resolved)

	// missing folder
	_, err = ResolveFolder(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
