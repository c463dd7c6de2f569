// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"github.com/zerojuls/search-api/server/config"
)

// GetBaseURL returns the address of the search API under test.
func GetBaseURL() string {
	config.LoadEnvironment()

	if config.GetEnvironment() == config.EnvTest {
		return "http://search_api:8080"
	}
	return "http://localhost:8080"
}

// GetSearchURL returns the address of the search backend the API under test is configured with.
func GetSearchURL() string {
	config.LoadEnvironment()

	if config.GetEnvironment() == config.EnvTest {
		return "http://search_backend:9200"
	}
	return "http://localhost:9200"
}
