package location

import (
	"quickmeet-api/core/database"
	"quickmeet-api/core/logger"
	"quickmeet-api/modules/location/repository"
	"quickmeet-api/modules/location/service"
)

// Init builds the location services. The module has no routes of its
// own; the resolver and bucketer are consumed by the meetup module.
func Init(db database.IDatabase, metroTablePath string) (*service.Resolver, *service.Bucketer) {
	metros, err := service.LoadMetroTable(metroTablePath)
	if err != nil {
		logger.Error("LocationModule:Init:LoadMetroTable", err)
		metros = service.DefaultMetroTable()
	}

	resolver := service.NewResolver(metros)
	repo := repository.NewUserLocationRepository(db)
	bucketer := service.NewBucketer(resolver, repo)

	return resolver, bucketer
}
