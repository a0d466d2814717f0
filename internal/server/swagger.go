package server

//go:generate swag init -g internal/server/server.go -o docs

// @title Ladle API
// @version 0.1
// @description Interactive documentation for the ladle recipe runner API surface.
// @contact.name Ladle Maintainers
// @contact.url https://github.com/avelline/ladle
// @BasePath /
