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

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/centavohq/centavo"
	"github.com/centavohq/centavo/api/middleware"
	"github.com/centavohq/centavo/config"
)

type Api struct {
	centavo *centavo.Centavo
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/import-runs", a.QueueImportRun)
	router.GET("/import-runs/:id", a.GetImportRun)
	router.GET("/import-runs/:id/rows", a.GetImportRunRows)
	router.GET("/import-runs", a.GetImportRuns)
	router.POST("/import-runs/recover", a.RecoverImportRuns)

	router.POST("/clients", a.CreateClient)
	router.GET("/clients", a.GetAllClients)
	router.POST("/clients/import", a.ImportClients)

	router.POST("/projects", a.CreateProject)
	router.GET("/projects", a.GetAllProjects)

	router.GET("/expense-records", a.GetAllExpenseRecords)
	router.GET("/expense-records/:id", a.GetExpenseRecord)

	return a.router
}

func NewAPI(c *centavo.Centavo) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware(conf))
	}
	r.Use(middleware.RateLimitMiddleware(conf))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{centavo: c, router: r}
}
