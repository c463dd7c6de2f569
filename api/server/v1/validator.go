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

package api

import (
	"strings"

	"google.golang.org/grpc/codes"
)

type Validator interface {
	Validate() error
}

func (x *SearchRequest) Validate() error {
	if err := isValidIndex(x.Index); err != nil {
		return err
	}

	if x.From < 0 {
		return Errorf(codes.InvalidArgument, ValidationError, "from must be a positive number, got '%d'", x.From)
	}
	if x.Size < 0 {
		return Errorf(codes.InvalidArgument, ValidationError, "size must be a positive number, got '%d'", x.Size)
	}
	if x.FacetSize < 0 {
		return Errorf(codes.InvalidArgument, ValidationError, "facet size must be a positive number, got '%d'", x.FacetSize)
	}

	return nil
}

func (x *GetRequest) Validate() error {
	if err := isValidIndex(x.Index); err != nil {
		return err
	}

	if len(strings.TrimSpace(x.ID)) == 0 {
		return Errorf(codes.InvalidArgument, ValidationError, "id is a required field")
	}

	return nil
}

func isValidIndex(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return Errorf(codes.InvalidArgument, ValidationError, "invalid index name")
	}

	return nil
}
