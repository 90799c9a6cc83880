package main

import "github.com/clipforge/clipforge-api/cmd"

// @title           ClipForge API
// @version         1.0.0
// @description     A clip suggestion API: upload a video, get ranked short-form clip candidates
// @contact.name    API Support
// @contact.url     https://github.com/clipforge/clipforge-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
