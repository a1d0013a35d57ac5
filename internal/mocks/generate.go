package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Storage --dir ../domain/storage --output domain/storage --outpkg storagemock --filename storage_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LockingStorage --dir ../domain/storage --output domain/storage --outpkg storagemock --filename locking_storage_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Client --dir ../../external/upstream --output upstream --outpkg upstreammock --filename client_mock.go
