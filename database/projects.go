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
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/centavohq/centavo/internal/apierror"
	"github.com/centavohq/centavo/model"
)

func (d Datasource) CreateProject(project model.Project) (model.Project, error) {
	project.ProjectID = model.GenerateUUIDWithSuffix("prj")
	project.CreatedAt = time.Now()

	var clientID sql.NullString
	if project.ClientID != "" {
		clientID = sql.NullString{String: project.ClientID, Valid: true}
	}

	_, err := d.Conn.Exec(`
		INSERT INTO projects (project_id, name, client_id, client_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, project.ProjectID, project.Name, clientID, project.ClientName, project.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.Project{}, apierror.NewAPIError(apierror.ErrConflict, "Project with this ID already exists", err)
			case "foreign_key_violation":
				return model.Project{}, apierror.NewAPIError(apierror.ErrBadRequest, "Client does not exist", err)
			default:
				return model.Project{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Project{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create project", err)
	}

	return project, nil
}

func (d Datasource) GetAllProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, project_id, name, COALESCE(client_id, ''), COALESCE(client_name, ''), created_at
		FROM projects
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve projects", err)
	}
	defer rows.Close()

	projects := []model.Project{}

	for rows.Next() {
		project := model.Project{}
		err = rows.Scan(&project.ID, &project.ProjectID, &project.Name, &project.ClientID, &project.ClientName, &project.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan project data", err)
		}
		projects = append(projects, project)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over projects", err)
	}

	return projects, nil
}
