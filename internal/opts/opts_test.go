/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrDefault(t *testing.T) {
	t.Setenv("STATEFUSE_TEST_VALUE", "")
	assert.Equal(t, 7, parseOrDefault("STATEFUSE_TEST_VALUE", 7, 0))

	t.Setenv("STATEFUSE_TEST_VALUE", "0x20")
	assert.Equal(t, 32, parseOrDefault("STATEFUSE_TEST_VALUE", 7, 15))

	t.Setenv("STATEFUSE_TEST_VALUE", "8")
	require.PanicsWithValue(t, "statefuse: value too small for STATEFUSE_TEST_VALUE", func() {
		parseOrDefault("STATEFUSE_TEST_VALUE", 7, 15)
	})

	t.Setenv("STATEFUSE_TEST_VALUE", "lots")
	require.Panics(t, func() { parseOrDefault("STATEFUSE_TEST_VALUE", 7, 15) })
}

func TestOptions_CanIterate(t *testing.T) {
	o := GetDefaultOptions()
	o.MaxIterations = 0
	assert.True(t, o.CanIterate(1000))
	o.MaxIterations = 2
	assert.True(t, o.CanIterate(1))
	assert.False(t, o.CanIterate(2))
	assert.NotNil(t, o.Log())
}
