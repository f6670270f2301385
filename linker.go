/*
Copyright 2025 Centavo Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package centavo

import (
	"strings"

	"github.com/centavohq/centavo/model"
)

// LinkProjects returns the de-duplicated union of projects tied to the
// resolved client id and projects whose stored client-name text matches the
// raw company text (exactly or by containment, both sides matching-normalized).
// Order follows the project snapshot's load order.
func LinkProjects(projects []model.Project, clientID string, company string) []string {
	companyKey := MatchKey(company)
	seen := map[string]bool{}
	linked := []string{}

	for _, project := range projects {
		if seen[project.ProjectID] {
			continue
		}
		if clientID != "" && project.ClientID == clientID {
			seen[project.ProjectID] = true
			linked = append(linked, project.ProjectID)
			continue
		}
		if project.ClientName == "" || companyKey == "" {
			continue
		}
		nameKey := MatchKey(project.ClientName)
		if nameKey == companyKey ||
			(len(nameKey) >= minContainmentLength && len(companyKey) >= minContainmentLength &&
				(strings.Contains(nameKey, companyKey) || strings.Contains(companyKey, nameKey))) {
			seen[project.ProjectID] = true
			linked = append(linked, project.ProjectID)
		}
	}

	return linked
}
