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
	"fmt"
	"os"
	"path/filepath"
)

// ResolveFile resolves a possibly relative path to an existing regular
// file. Absolute paths are only checked for existence. Relative paths
// are tried against the working directory, the executable's directory
// and the user's home directory, in this order.
func ResolveFile(file string) (string, error) {
	return resolve(file, func(fi os.FileInfo) bool { return fi.Mode().IsRegular() })
}

// ResolveFolder resolves a possibly relative path to an existing
// directory, searching the same places as ResolveFile.
func ResolveFolder(folder string) (string, error) {
	return resolve(folder, func(fi os.FileInfo) bool { return fi.IsDir() })
}

// resolve implements the shared search logic. The accept function
// decides whether a found path is of the wanted kind.
func resolve(path string, accept func(os.FileInfo) bool) (string, error) {
	path = filepath.Clean(path)

	exists := func(p string) bool {
		fi, err := os.Stat(p)
		return err == nil && fi != nil && accept(fi)
	}

	if filepath.IsAbs(path) {
		if exists(path) {
			return path, nil
		}
		return path, fmt.Errorf("path could not be found: %s", path)
	}

	// candidate base directories for a relative path
	var bases []string
	if wd, err := os.Getwd(); err == nil {
		bases = append(bases, wd)
	}
	if exe, err := os.Executable(); err == nil {
		bases = append(bases, filepath.Dir(exe))
	}
	if home, err := os.UserHomeDir(); err == nil {
		bases = append(bases, home)
	}
	for _, base := range bases {
		candidate := filepath.Join(base, path)
		if exists(candidate) {
			return candidate, nil
		}
	}
	return path, fmt.Errorf("path could not be found: %s", path)
}
