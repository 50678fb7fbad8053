package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name BlobStore --dir ../usecase --output usecase --outpkg usecasemock --filename blob_store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name TokenVerifier --dir ../interfaces/httpapi --output httpapi --outpkg httpapimock --filename token_verifier_mock.go
